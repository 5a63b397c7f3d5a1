// Package names generates human-readable node names in "adjective-noun" form,
// such as "swift-delta" or "quiet-weir". floodgated uses them when --name is
// not given, so log lines and member tables stay readable without IDs.
package names

import (
	"math/rand/v2"
)

var adjectives = []string{
	"amber", "ancient", "bold", "brisk", "calm", "clear", "cold", "crisp",
	"deep", "dusky", "eager", "early", "fleet", "frosty", "gentle", "glassy",
	"golden", "grand", "hidden", "hollow", "icy", "keen", "lively", "lucid",
	"misty", "mossy", "nimble", "quiet", "rapid", "restless", "rising", "rushing",
	"salty", "serene", "shallow", "silent", "silver", "sleepy", "steady", "still",
	"stormy", "swift", "tidal", "tranquil", "vivid", "wandering", "wild", "winding",
}

var nouns = []string{
	"basin", "bay", "brook", "canal", "cascade", "channel", "creek", "current",
	"dam", "delta", "eddy", "estuary", "falls", "fjord", "flood", "ford",
	"geyser", "glacier", "gorge", "harbor", "inlet", "lagoon", "lake", "lock",
	"marsh", "meander", "oasis", "pond", "pool", "rapids", "reef", "reservoir",
	"ripple", "river", "runnel", "shoal", "sluice", "spring", "strait", "stream",
	"surge", "tide", "torrent", "wave", "weir", "wellspring", "whirlpool", "spillway",
}

// Generate returns a random node name. Names are not guaranteed unique; the
// cluster identifies nodes by ID.
func Generate() string {
	return adjectives[rand.IntN(len(adjectives))] + "-" + nouns[rand.IntN(len(nouns))]
}
