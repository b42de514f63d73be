package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"budgetbot/internal/project"
)

// Main-menu button texts. Anything matching one of these is a menu tap,
// never an expense, and must not reach the parser.
const (
	ButtonNewProject    = "Новый проект"
	ButtonProjects      = "Список проектов"
	ButtonDeleteProject = "Удалить проект"
	ButtonReport        = "Получить сводку по текущему проекту"
)

var mainMenuButtons = map[string]struct{}{
	ButtonNewProject:    {},
	ButtonProjects:      {},
	ButtonDeleteProject: {},
	ButtonReport:        {},
}

func isMenuButton(text string) bool {
	_, ok := mainMenuButtons[text]
	return ok
}

// Callback data prefixes for the inline project menus. The payload after
// the prefix is the project ID.
const (
	callbackSetProject    = "project:set:"
	callbackDeleteProject = "project:del:"
)

func projectInlineKeyboard(projects []*project.Project, prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(projects))
	for _, p := range projects {
		label := p.Name
		if p.IsActive {
			label += " (активен)"
		}
		data := fmt.Sprintf("%s%d", prefix, p.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonNewProject)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonProjects)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonDeleteProject)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonReport)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}
