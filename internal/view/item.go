package view

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rpggio/roster/internal/domain/student"
	"golang.org/x/text/unicode/norm"
)

// CardColor is the background shared by every item.
const CardColor = "#F8F6F0"

// Item is the presentation projection of a student.
type Item struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Initial  string `json:"initial"`
	Subtitle string `json:"subtitle"`
	Color    string `json:"color"`
}

// Decorate derives an Item from a stored student.
func Decorate(s student.Student) Item {
	return Item{
		ID:       s.ID,
		Name:     s.Name,
		Initial:  Initial(s.Name),
		Subtitle: Subtitle(s.ID),
		Color:    CardColor,
	}
}

// Initial returns the uppercased first letter of the first word of name, or
// "?" when name has no words. The word is composed to NFC first so a letter
// typed with a combining accent stays accented.
func Initial(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "?"
	}
	word := norm.NFC.String(fields[0])
	_, size := utf8.DecodeRuneInString(word)
	return strings.ToUpper(word[:size])
}

// Subtitle formats the secondary line of an item.
func Subtitle(id int64) string {
	return fmt.Sprintf("ID #%d", id)
}
