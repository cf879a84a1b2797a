package pkg

import "strings"

// LikeEscape is the ESCAPE clause that pairs with ContainsPattern.
const LikeEscape = `ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a lower-cased LIKE pattern matching s anywhere in a
// value. Wildcards in s are escaped so they match literally; use it with
// "LOWER(col) LIKE ? " + LikeEscape.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
