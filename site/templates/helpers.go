package templates

import "strings"

func hasTitle(head string) bool {
	return strings.Contains(head, "<title>")
}
