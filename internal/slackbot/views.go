package slackbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/pkordes/lolidays/internal/domain"
)

// Callback, block and action identifiers shared between the views built
// here and the submission handlers that read them back.
const (
	callbackNewVacation = "vacation_new"
	callbackAddStop     = "stop_add"
	actionOpenAddStop   = "open_addstop"

	blockTitle, actionTitle = "title", "t"
	blockStart, actionStart = "dates", "start"
	blockEnd, actionEnd     = "dates2", "end"

	blockVacation, actionVacation = "vac", "v"
	blockName, actionName         = "name", "n"
	blockDate, actionDate         = "date", "d"
	blockAlbum, actionAlbum       = "album", "a"
	blockIdx, actionIdx           = "idx", "i"
)

const dateLayout = "2006-01-02"

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func textInput(blockID, actionID, label, placeholder, initial string, optional bool) *slack.InputBlock {
	var ph *slack.TextBlockObject
	if placeholder != "" {
		ph = plain(placeholder)
	}
	el := slack.NewPlainTextInputBlockElement(ph, actionID)
	el.InitialValue = initial
	in := slack.NewInputBlock(blockID, plain(label), nil, el)
	in.Optional = optional
	return in
}

func dateInput(blockID, actionID, label string) *slack.InputBlock {
	in := slack.NewInputBlock(blockID, plain(label), nil, slack.NewDatePickerBlockElement(actionID))
	in.Optional = true
	return in
}

// newVacationModal is the dialog behind "/vacation new".
func newVacationModal() slack.ModalViewRequest {
	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: callbackNewVacation,
		Title:      plain("New Vacation"),
		Submit:     plain("Create"),
		Close:      plain("Cancel"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			textInput(blockTitle, actionTitle, "Title", "e.g., Norway: Oslo → Telemark", "", false),
			dateInput(blockStart, actionStart, "Start date"),
			dateInput(blockEnd, actionEnd, "End date"),
		}},
	}
}

// addStopModal is the dialog behind "/vacation addstop" and the home view's
// "Add stop" button. vacationID pre-fills the vacation field when non-empty.
func addStopModal(vacationID string) slack.ModalViewRequest {
	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: callbackAddStop,
		Title:      plain("Add Stop"),
		Submit:     plain("Add"),
		Close:      plain("Cancel"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			textInput(blockVacation, actionVacation, "Vacation ID", "", vacationID, false),
			textInput(blockName, actionName, "Stop name", "e.g., Oslo, Vollen, Telemark", "", false),
			dateInput(blockDate, actionDate, "Date at stop"),
			textInput(blockAlbum, actionAlbum, "Album URL (optional)", "", "", true),
			textInput(blockIdx, actionIdx, "Order (leave blank to append)", "", "", true),
		}},
	}
}

// routeBlocks renders a headline, the static route image and a button
// linking to the interactive map.
func routeBlocks(headline, imageURL, altText, mapURL string) []slack.Block {
	button := slack.NewButtonBlockElement("open_map", "", plain("Open interactive map"))
	button.URL = mapURL
	return []slack.Block{
		slack.NewSectionBlock(mrkdwn(headline), nil, nil),
		slack.NewImageBlock(imageURL, altText, "", nil),
		slack.NewActionBlock("", button),
	}
}

// homeView lists every vacation with an "Add stop" button.
func homeView(mapURL string, vacations []domain.VacationWithStops) slack.HomeTabViewRequest {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain("Lolidays — Family Routes")),
		slack.NewSectionBlock(mrkdwn("Open map → "+mapURL), nil, nil),
		slack.NewDividerBlock(),
	}
	for _, v := range vacations {
		text := fmt.Sprintf("*%s*  (%s → %s)\nID: `%s`\n%d stops",
			v.Title, dateOrDash(v.StartDate), dateOrDash(v.EndDate), v.ID, len(v.Stops))
		button := slack.NewButtonBlockElement(actionOpenAddStop, v.ID, plain("Add stop"))
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(text), nil, slack.NewAccessory(button)))
	}
	return slack.HomeTabViewRequest{Type: slack.VTHomeTab, Blocks: slack.Blocks{BlockSet: blocks}}
}

// stopLines renders "N. name (date) — stop_id: `x`, idx: k", one per stop.
func stopLines(stops []domain.Stop) string {
	var sb strings.Builder
	for i, s := range stops {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, s.Name)
		if s.Date != nil {
			fmt.Fprintf(&sb, " (%s)", s.Date.Format(dateLayout))
		}
		fmt.Fprintf(&sb, " — stop_id: `%s`, idx: %d", s.ID, s.Idx)
	}
	return sb.String()
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format(dateLayout)
}
