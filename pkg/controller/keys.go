package controller

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// tcell reports printable keys as KeyRune; these synthetic keys let rune shortcuts share the
// events map with special keys like Tab.
const (
	KeyA tcell.Key = iota + 1000
	KeyC
	KeyD
	KeyE
	KeyQ
	KeyT
	KeyLeftBracket
	KeyRightBracket
)

var runeKeys = map[rune]tcell.Key{
	'a': KeyA,
	'c': KeyC,
	'd': KeyD,
	'e': KeyE,
	'q': KeyQ,
	't': KeyT,
	'[': KeyLeftBracket,
	']': KeyRightBracket,
}

var registerKeys sync.Once

// initKeys registers display names for the synthetic keys in tcell's global table.
func initKeys() {
	registerKeys.Do(func() {
		for r, key := range runeKeys {
			tcell.KeyNames[key] = string(r)
		}
	})
}

// AsKey maps a key event to the key used in the events map.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}

	if key, ok := runeKeys[evt.Rune()]; ok {
		return key
	}

	return tcell.KeyRune
}
