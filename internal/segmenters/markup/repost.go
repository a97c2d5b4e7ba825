package markup

import "strings"

const lineBreak = "<br/>"

// RepairRepost rewrites a post that reposts an older message on someone
// else's behalf. The first fragment is kept without its dash rule, the
// three header fragments after it are dropped and the rest is the
// reposted text. ok is false when body does not start with prefix.
func RepairRepost(body, prefix string) (repaired string, ok bool) {
	if prefix == "" || !strings.HasPrefix(body, prefix) {
		return body, false
	}

	parts := strings.Split(body, lineBreak)
	head := strings.TrimRight(parts[0], "-")
	if len(parts) <= 4 {
		return head + lineBreak, true
	}
	return head + lineBreak + strings.Join(parts[4:], lineBreak), true
}
