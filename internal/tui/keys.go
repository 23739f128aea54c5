package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/dt-pm-tools/aha-cli/internal/config"
)

// KeyMap defines the browser's navigation bindings. Modal input (search
// and the creation wizard) reads raw keys and does not use it.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Back   key.Binding // Leave the active level.
	Enter  key.Binding // Drill into the selected row.
	Search key.Binding
	Create key.Binding // Feature, or requirement at the Feature level.
	Quit   key.Binding
}

// DefaultKeyMap is the built-in binding set: vim keys alongside arrows.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Back: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "back"),
	),
	Enter: key.NewBinding(
		key.WithKeys("l", "right", "enter"),
		key.WithHelp("l/→/enter", "open"),
	),
	Search: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "search"),
	),
	Create: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "create"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// KeyMapFrom returns DefaultKeyMap with the configured bindings replaced.
func KeyMapFrom(keys config.KeysConfig) KeyMap {
	keyMap := DefaultKeyMap
	rebind(&keyMap.Up, keys.Up)
	rebind(&keyMap.Down, keys.Down)
	rebind(&keyMap.Back, keys.Back)
	rebind(&keyMap.Enter, keys.Enter)
	rebind(&keyMap.Search, keys.Search)
	rebind(&keyMap.Create, keys.Create)
	rebind(&keyMap.Quit, keys.Quit)
	return keyMap
}

func rebind(binding *key.Binding, keys []string) {
	if len(keys) == 0 {
		return
	}
	help := binding.Help()
	*binding = key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), help.Desc),
	)
}
