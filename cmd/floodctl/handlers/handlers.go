// Package handlers provides command handler functions for floodctl.
//
// - node.go: health, stats, members and reset of the node behind --api
// - batch.go: server-side batches run by the node
// - write.go: client-side load, every record submitted from the CLI
//
// Handlers follow the cobra RunE signature, talk to the node through the
// client package and print through the display package.
package handlers
