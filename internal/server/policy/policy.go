// Package policy decides which callers may trigger decryptions and
// administrative resets.
package policy

// Policy is consulted before every privileged operation.
type Policy interface {
	CanRequestReveal(caller string, recordID int64) bool
	CanRequestTopicCount(caller string) bool
	CanReset(caller string) bool
}

// DenyAll rejects every privileged operation.
type DenyAll struct{}

func (DenyAll) CanRequestReveal(string, int64) bool { return false }
func (DenyAll) CanRequestTopicCount(string) bool    { return false }
func (DenyAll) CanReset(string) bool                { return false }

// AllowList grants decryption requests to listed callers and resets to
// admins. Admins may also request decryptions.
type AllowList struct {
	callers map[string]struct{}
	admins  map[string]struct{}
}

func NewAllowList(callers, admins []string) *AllowList {
	p := &AllowList{
		callers: make(map[string]struct{}, len(callers)),
		admins:  make(map[string]struct{}, len(admins)),
	}
	for _, c := range callers {
		p.callers[c] = struct{}{}
	}
	for _, a := range admins {
		p.admins[a] = struct{}{}
	}
	return p
}

func (p *AllowList) allowed(caller string) bool {
	if caller == "" {
		return false
	}
	_, ok := p.callers[caller]
	return ok || p.CanReset(caller)
}

func (p *AllowList) CanRequestReveal(caller string, _ int64) bool {
	return p.allowed(caller)
}

func (p *AllowList) CanRequestTopicCount(caller string) bool {
	return p.allowed(caller)
}

func (p *AllowList) CanReset(caller string) bool {
	if caller == "" {
		return false
	}
	_, ok := p.admins[caller]
	return ok
}
