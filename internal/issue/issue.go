// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

//nolint:revive // Id matches the catalog's established naming.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	SourceUnavailableId
	AgendaParseErrorId
	DanglingReferenceId
	CircularExtensionId
	ShipNotFoundId
	NoAgendaMatchedId
	ArenaInfoNotFoundId
	CatalogImportFailedId
	PermissionDeniedId
)

type (
	MarkdownMsg string

	HttpLink string //nolint:revive

	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id } //nolint:revive

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the issue's Markdown with the named glamour style
// ("dark", "light", "notty", ...). Links are appended as a "See also" list.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

The configuration file exists but is not valid.

## Things you can try
- Check the CUE syntax of the file named above
- Compare it with the defaults:
~~~
$ briefing config show
~~~
- Remove the file to fall back to built-in defaults`,
	}

	sourceUnavailableIssue = &Issue{
		id: SourceUnavailableId,
		mdMsg: `
# An agenda source is unavailable

One of the configured agenda directories does not exist or cannot be read.
It was treated as empty, so its agendas take no part in selection.

## Things you can try
- Create the directory, or remove it from ` + "`sources`" + ` in your config
- Check its permissions`,
	}

	agendaParseErrorIssue = &Issue{
		id: AgendaParseErrorId,
		mdMsg: `
# An agenda file is invalid

A definition file could not be decoded, or does not have the shape of an agenda.
No agenda is chosen until every file in every source is valid.

## Expected shape
~~~yaml
name: ijn-destroyers
extends: destroyers
matcher:
  - classes: [Destroyer]
    nations: [japan]
topics:
  torpedoes: {}
  smoke:
    reminder: true
~~~

## Things you can try
- Fix the field named in the error
- Clause keys are ` + "`ships`, `classes`, `tiers`, `nations` and `has`",
	}

	danglingReferenceIssue = &Issue{
		id: DanglingReferenceId,
		mdMsg: `
# An agenda extends an unknown agenda

` + "`extends`" + ` names an agenda that is not defined in any source.

## Things you can try
- Check the spelling of the name
- Make sure the parent file is in one of the configured sources
- List what is known:
~~~
$ briefing agendas
~~~`,
	}

	circularExtensionIssue = &Issue{
		id: CircularExtensionId,
		mdMsg: `
# Agendas extend each other in a circle

Following ` + "`extends`" + ` from one of the agendas leads back to itself.
The chain is shown in the error.

## Things you can try
- Remove ` + "`extends`" + ` from one agenda on the chain`,
	}

	shipNotFoundIssue = &Issue{
		id: ShipNotFoundId,
		mdMsg: `
# The ship is not in the catalog

The player's ship could not be resolved, so no agenda can be matched against it.

## Things you can try
- Import an up-to-date ship catalog:
~~~
$ briefing catalog import ships.json
~~~
- Check the designator passed with ` + "`--ship`",
	}

	noAgendaMatchedIssue = &Issue{
		id: NoAgendaMatchedId,
		mdMsg: `
# No agenda matches this ship

None of the agendas in any source matched the player's ship.

## Things you can try
- Add an agenda without a matcher; it matches every ship
- Widen the matcher of an existing agenda`,
	}

	arenaInfoNotFoundIssue = &Issue{
		id: ArenaInfoNotFoundId,
		mdMsg: `
# Arena info not found

The game writes ` + "`tempArenaInfo.json`" + ` into its replays directory when a battle starts.

## Things you can try
- Start a battle, then retry
- Enable replays in the game preferences
- Pass the file explicitly with ` + "`--arena`",
	}

	catalogImportFailedIssue = &Issue{
		id: CatalogImportFailedId,
		mdMsg: `
# Ship catalog import failed

## Expected shape
~~~json
[
  {"id": "4179605296", "index": "PJSD012", "name": "Shimakaze",
   "species": "Destroyer", "tier": 10, "nation": "japan",
   "features": ["torpedoes", "smoke"]}
]
~~~

## Things you can try
- Use a ` + "`.json`" + ` or ` + "`.yaml`" + ` file
- Make sure every ship has an id, name, species and tier`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

## Things you can try
- Check the permissions of the file or directory named above
- Run briefing as the user that owns the game directory`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		sourceUnavailableIssue.Id():   sourceUnavailableIssue,
		agendaParseErrorIssue.Id():    agendaParseErrorIssue,
		danglingReferenceIssue.Id():   danglingReferenceIssue,
		circularExtensionIssue.Id():   circularExtensionIssue,
		shipNotFoundIssue.Id():        shipNotFoundIssue,
		noAgendaMatchedIssue.Id():     noAgendaMatchedIssue,
		arenaInfoNotFoundIssue.Id():   arenaInfoNotFoundIssue,
		catalogImportFailedIssue.Id(): catalogImportFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
