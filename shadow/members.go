package shadow

import (
	"context"
	"sync"

	"github.com/aurelia-tools/aurelia-ls/host"
)

// memberKey is a content-addressed cache key: a cache hit requires an
// exact byte match on the view-model file's content, per spec §4.C.
type memberKey struct {
	filePath string
	content  string
}

// MemberCache memoises the Analysis Host's class-member listing for a
// view-model class, by (filePath, fileContent). Stale entries for a path
// whose content has since changed are never returned — they simply miss,
// since the key includes the content — and are naturally replaced by the
// next successful lookup, per spec §5's "stale entries are tolerated and
// replaced on next cache miss".
type MemberCache struct {
	mu      sync.Mutex
	entries map[memberKey][]host.ClassMember
}

// NewMemberCache returns an empty MemberCache.
func NewMemberCache() *MemberCache {
	return &MemberCache{entries: make(map[memberKey][]host.ClassMember)}
}

// Members returns the member list for className declared in filePath whose
// current content is fileContent, calling the host only on a cache miss.
func (c *MemberCache) Members(ctx context.Context, ah host.AnalysisHost, filePath, fileContent, className string) ([]host.ClassMember, error) {
	key := memberKey{filePath: filePath, content: fileContent}

	c.mu.Lock()
	if members, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return members, nil
	}
	c.mu.Unlock()

	members, err := ah.ClassMembers(ctx, filePath, className)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = members
	c.mu.Unlock()
	return members, nil
}

// memberSet builds a quick lookup set of member names from a ClassMember
// list.
func memberSet(members []host.ClassMember) map[string]struct{} {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m.Name] = struct{}{}
	}
	return set
}
