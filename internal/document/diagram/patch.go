// Package diagram patches fenced mermaid blocks inside section content by
// position. Blocks are numbered 0, 1, 2, … in order of appearance; the
// addressing is positional, so an edit that adds, removes or reorders
// blocks between observing an index and applying the patch can retarget it.
// That caveat is accepted under the single-editor-session model.
package diagram

import (
	"errors"
	"strings"
)

// ErrBlockOutOfRange is returned when the index names no existing block.
// The original content is returned alongside it, unmodified.
var ErrBlockOutOfRange = errors.New("diagram block index out of range")

// PatchBlock replaces the body of the index-th fenced mermaid block in
// content with body. Fence markers and every byte outside the target body
// are preserved exactly; other fenced blocks are untouched. A trailing
// newline is appended to body when missing so the closing fence keeps its
// own line.
func PatchBlock(content string, index int, body string) (string, error) {
	if index < 0 {
		return content, ErrBlockOutOfRange
	}

	seen := -1
	pos := 0
	for pos <= len(content) {
		lineEnd := lineEndFrom(content, pos)
		line := content[pos:lineEnd]

		if !isOpeningFence(line) {
			if lineEnd >= len(content) {
				break
			}
			pos = lineEnd + 1
			continue
		}

		bodyStart := lineEnd
		if bodyStart < len(content) {
			bodyStart++ // skip the opener's newline
		}

		closeStart := findClosingFence(content, bodyStart)
		if closeStart < 0 {
			// unterminated fence; no further complete blocks exist
			break
		}

		seen++
		if seen == index {
			nb := body
			if nb != "" && !strings.HasSuffix(nb, "\n") {
				nb += "\n"
			}
			return content[:bodyStart] + nb + content[closeStart:], nil
		}

		pos = lineEndFrom(content, closeStart)
		if pos >= len(content) {
			break
		}
		pos++
	}
	return content, ErrBlockOutOfRange
}

// Count returns how many complete fenced mermaid blocks content holds.
func Count(content string) int {
	n := 0
	pos := 0
	for pos <= len(content) {
		lineEnd := lineEndFrom(content, pos)
		if isOpeningFence(content[pos:lineEnd]) {
			bodyStart := lineEnd
			if bodyStart < len(content) {
				bodyStart++
			}
			closeStart := findClosingFence(content, bodyStart)
			if closeStart < 0 {
				break
			}
			n++
			pos = lineEndFrom(content, closeStart)
		} else {
			pos = lineEnd
		}
		if pos >= len(content) {
			break
		}
		pos++
	}
	return n
}

func lineEndFrom(s string, pos int) int {
	if i := strings.IndexByte(s[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(s)
}

func isOpeningFence(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "```") {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(trimmed[3:]), "mermaid")
}

func isClosingFence(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") && strings.Trim(trimmed, "`") == ""
}

// findClosingFence returns the byte offset of the line holding the next
// closing fence at or after pos, or -1 when the fence is unterminated.
func findClosingFence(s string, pos int) int {
	for pos <= len(s) {
		lineEnd := lineEndFrom(s, pos)
		if isClosingFence(s[pos:lineEnd]) {
			return pos
		}
		if lineEnd >= len(s) {
			return -1
		}
		pos = lineEnd + 1
	}
	return -1
}
