package cluster

import (
	"time"

	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/hashicorp/serf/serf"
)

// processEvents applies serf events to the member table until shutdown.
func (m *Manager) processEvents() {
	defer m.wg.Done()

	for {
		select {
		case event := <-m.eventQueue:
			m.handleEvent(event)
		case <-m.ctx.Done():
			logging.Debug("Cluster event processor shutting down")
			return
		}
	}
}

func (m *Manager) handleEvent(event serf.Event) {
	switch e := event.(type) {
	case serf.MemberEvent:
		m.handleMemberEvent(e)
	default:
		logging.Debug("Ignoring serf event type: %T", event)
	}
}

func (m *Manager) handleMemberEvent(event serf.MemberEvent) {
	for _, member := range event.Members {
		switch event.EventType() {
		case serf.EventMemberJoin:
			logging.Info("Node joined: %s (%s:%d)", member.Name, member.Addr, member.Port)
			m.addMember(member)

		case serf.EventMemberUpdate:
			logging.Info("Node updated: %s (%s:%d)", member.Name, member.Addr, member.Port)
			m.addMember(member)

		case serf.EventMemberFailed:
			logging.Warn("Node failed: %s (%s:%d)", member.Name, member.Addr, member.Port)
			m.updateMemberStatus(member, serf.StatusFailed)

		case serf.EventMemberLeave, serf.EventMemberReap:
			logging.Info("Node left: %s (%s:%d)", member.Name, member.Addr, member.Port)
			m.removeMember(member)
		}
	}
}

func (m *Manager) addMember(member serf.Member) {
	node := nodeFromMember(member)

	m.memberLock.Lock()
	m.members[node.ID] = node
	m.memberLock.Unlock()
}

func (m *Manager) updateMemberStatus(member serf.Member, status serf.MemberStatus) {
	m.memberLock.Lock()
	defer m.memberLock.Unlock()

	if node, ok := m.members[memberID(member)]; ok {
		node.Status = status
	}
}

func (m *Manager) removeMember(member serf.Member) {
	m.memberLock.Lock()
	delete(m.members, memberID(member))
	m.memberLock.Unlock()
}

// memberID keys the member table by the advertised node ID, falling back to
// the serf name for agents that do not set one.
func memberID(member serf.Member) string {
	if id := member.Tags[TagNodeID]; id != "" {
		return id
	}
	return member.Name
}

func nodeFromMember(member serf.Member) *Node {
	node := &Node{
		ID:       memberID(member),
		Name:     member.Name,
		Addr:     member.Addr,
		Port:     member.Port,
		Status:   member.Status,
		Tags:     make(map[string]string, len(member.Tags)),
		LastSeen: time.Now(),
	}
	for k, v := range member.Tags {
		node.Tags[k] = v
	}
	return node
}
