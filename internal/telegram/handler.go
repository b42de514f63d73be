package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"budgetbot/internal"
	projectDatamodel "budgetbot/internal/core/datamodel/project"
	userDatamodel "budgetbot/internal/core/datamodel/user"
	"budgetbot/internal/expense"
	"budgetbot/internal/parser"
	"budgetbot/internal/project"
	"budgetbot/internal/report"
	"budgetbot/internal/user"
	"budgetbot/pkg/logger"
)

// Sender is the slice of the bot API the handler needs; tgbotapi.BotAPI
// satisfies it. Request covers calls without a message result, like
// answering callback queries.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler routes incoming messages: commands, main-menu buttons, the
// new-project dialog, and bare text treated as an expense.
type Handler struct {
	sender        Sender
	users         *user.Service
	projects      *project.Service
	expenses      *expense.Service
	reports       *report.Service
	resolver      *parser.Resolver
	conversations *conversationStore
	reporting     string
}

func NewHandler(
	sender Sender,
	users *user.Service,
	projects *project.Service,
	expenses *expense.Service,
	reports *report.Service,
	resolver *parser.Resolver,
	reporting string,
) *Handler {
	return &Handler{
		sender:        sender,
		users:         users,
		projects:      projects,
		expenses:      expenses,
		reports:       reports,
		resolver:      resolver,
		conversations: newConversationStore(),
		reporting:     reporting,
	}
}

func (h *Handler) Handle(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if msg.IsCommand() {
		h.conversations.clear(chatID)
		h.handleCommand(ctx, msg)
		return
	}

	if conv := h.conversations.get(chatID); conv.step != stepNone {
		h.continueNewProject(ctx, msg, conv)
		return
	}

	if isMenuButton(text) {
		h.handleMenuButton(ctx, msg)
		return
	}

	h.handleExpense(ctx, msg)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "newproject":
		h.startNewProject(ctx, msg)
	case "projects":
		h.handleProjects(ctx, msg)
	case "setproject":
		h.handleSetProject(ctx, msg)
	case "deleteproject":
		h.handleDeleteProject(ctx, msg)
	case "add":
		h.handleExpense(ctx, msg)
	case "report":
		h.handleReport(ctx, msg)
	default:
		h.reply(ctx, msg.Chat.ID, "Не знаю такой команды. Посмотри /start.")
	}
}

func (h *Handler) handleMenuButton(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Text {
	case ButtonNewProject:
		h.startNewProject(ctx, msg)
	case ButtonProjects:
		h.handleProjects(ctx, msg)
	case ButtonDeleteProject:
		h.promptDeleteProject(ctx, msg)
	case ButtonReport:
		h.handleReport(ctx, msg)
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := h.identify(ctx, msg.From); err != nil {
		h.replyInternalError(ctx, msg.Chat.ID, err)
		return
	}

	text := "Привет! Я бот для подсчёта бюджета по разным проектам (поездка, ремонт, отпуск и т.д.).\n\n" +
		"Главное меню:\n" +
		"• <b>Новый проект</b> — создать проект и сразу сделать его активным.\n" +
		"• <b>Список проектов</b> — выбрать, какой проект сделать активным.\n" +
		"• <b>Удалить проект</b> — удалить один из проектов без подтверждения.\n" +
		"• <b>Получить сводку по текущему проекту</b> — отчёт и краткий текстовый разбор.\n\n" +
		"Также доступны команды:\n" +
		"/newproject — создать проект\n" +
		"/projects — список проектов и выбор активного\n" +
		"/report — отчёт по текущему проекту"

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = mainMenuKeyboard()
	h.send(ctx, reply)
}

// --- new project dialog ---

func (h *Handler) startNewProject(ctx context.Context, msg *tgbotapi.Message) {
	h.conversations.set(msg.Chat.ID, conversation{step: stepProjectName})
	h.reply(ctx, msg.Chat.ID, "Как назовём новый проект? (например: «Поездка в Китай»)")
}

func (h *Handler) continueNewProject(ctx context.Context, msg *tgbotapi.Message, conv conversation) {
	chatID := msg.Chat.ID
	switch conv.step {
	case stepProjectName:
		h.conversations.set(chatID, conversation{
			step:        stepProjectCurrency,
			projectName: strings.TrimSpace(msg.Text),
		})
		h.reply(ctx, chatID, "В какой валюте по умолчанию считать траты? (например: RUB, CNY, EUR)")

	case stepProjectCurrency:
		h.conversations.clear(chatID)

		u, err := h.identify(ctx, msg.From)
		if err != nil {
			h.replyInternalError(ctx, chatID, err)
			return
		}

		name := conv.projectName
		if name == "" {
			name = "Без названия"
		}
		p, err := h.projects.Create(u.ID, name, strings.TrimSpace(msg.Text))
		if err != nil {
			h.replyInternalError(ctx, chatID, err)
			return
		}

		h.reply(ctx, chatID, fmt.Sprintf(
			"Готово, создал проект <b>«%s»</b> с базовой валютой <b>%s</b> "+
				"и сделал его активным.\n\n"+
				"Теперь просто присылай траты сообщениями, например:\n"+
				"<code>отели 65000</code> или <code>сувенир 10 юаней</code>.",
			p.Name, p.BaseCurrency))
	}
}

// --- project list / switch / delete ---

func (h *Handler) handleProjects(ctx context.Context, msg *tgbotapi.Message) {
	u, err := h.identify(ctx, msg.From)
	if err != nil {
		h.replyInternalError(ctx, msg.Chat.ID, err)
		return
	}

	projects, err := h.projects.List(u.ID)
	if err != nil {
		h.replyInternalError(ctx, msg.Chat.ID, err)
		return
	}
	if len(projects) == 0 {
		h.reply(ctx, msg.Chat.ID, "У тебя пока нет проектов.\nСоздай первый через /newproject.")
		return
	}

	lines := []string{"Твои проекты:"}
	for _, p := range projects {
		mark := ""
		if p.IsActive {
			mark = " (активен)"
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s", p.ID, p.Name, mark))
	}
	lines = append(lines, "",
		"Нажми на проект, чтобы сделать его активным.",
		"Сделать проект активным: /setproject <id>",
		"Удалить проект: /deleteproject <id>")

	reply := tgbotapi.NewMessage(msg.Chat.ID, strings.Join(lines, "\n"))
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = projectInlineKeyboard(projects, callbackSetProject)
	h.send(ctx, reply)
}

func (h *Handler) handleSetProject(ctx context.Context, msg *tgbotapi.Message) {
	projectID, ok := h.projectIDArg(ctx, msg, "setproject")
	if !ok {
		return
	}

	u, err := h.identify(ctx, msg.From)
	if err != nil {
		h.replyInternalError(ctx, msg.Chat.ID, err)
		return
	}

	h.setProject(ctx, msg.Chat.ID, u, projectID)
}

func (h *Handler) setProject(ctx context.Context, chatID int64, u *userDatamodel.User, projectID int64) {
	p, err := h.projects.SetActive(u.ID, projectID)
	if err != nil {
		if errors.Is(err, internal.ErrProjectNotFound) {
			h.reply(ctx, chatID, "Проект с таким ID не найден или не принадлежит тебе.")
			return
		}
		h.replyInternalError(ctx, chatID, err)
		return
	}

	h.reply(ctx, chatID, fmt.Sprintf("Активный проект теперь: <b>«%s»</b>.", p.Name))
}

func (h *Handler) handleDeleteProject(ctx context.Context, msg *tgbotapi.Message) {
	projectID, ok := h.projectIDArg(ctx, msg, "deleteproject")
	if !ok {
		return
	}

	u, err := h.identify(ctx, msg.From)
	if err != nil {
		h.replyInternalError(ctx, msg.Chat.ID, err)
		return
	}

	h.deleteProject(ctx, msg.Chat.ID, u, projectID)
}

func (h *Handler) deleteProject(ctx context.Context, chatID int64, u *userDatamodel.User, projectID int64) {
	if _, err := h.projects.Delete(u.ID, projectID); err != nil {
		if errors.Is(err, internal.ErrProjectNotFound) {
			h.reply(ctx, chatID, "Проект с таким ID не найден или не принадлежит тебе.")
			return
		}
		h.replyInternalError(ctx, chatID, err)
		return
	}

	h.reply(ctx, chatID, "Проект удалён. Можешь создать новый через /newproject.")
}

func (h *Handler) promptDeleteProject(ctx context.Context, msg *tgbotapi.Message) {
	u, err := h.identify(ctx, msg.From)
	if err != nil {
		h.replyInternalError(ctx, msg.Chat.ID, err)
		return
	}

	projects, err := h.projects.List(u.ID)
	if err != nil {
		h.replyInternalError(ctx, msg.Chat.ID, err)
		return
	}
	if len(projects) == 0 {
		h.reply(ctx, msg.Chat.ID, "У тебя пока нет проектов.\nСоздай первый через /newproject.")
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID,
		"Какой проект удалить? Учти: удаление без подтверждения.")
	reply.ReplyMarkup = projectInlineKeyboard(projects, callbackDeleteProject)
	h.send(ctx, reply)
}

// HandleCallback reacts to taps on the inline project menus.
func (h *Handler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Data == "" {
		return
	}
	h.answerCallback(ctx, cq.ID)
	chatID := cq.Message.Chat.ID

	u, err := h.identify(ctx, cq.From)
	if err != nil {
		h.replyInternalError(ctx, chatID, err)
		return
	}

	switch {
	case strings.HasPrefix(cq.Data, callbackSetProject):
		id, err := strconv.ParseInt(strings.TrimPrefix(cq.Data, callbackSetProject), 10, 64)
		if err != nil {
			return
		}
		h.setProject(ctx, chatID, u, id)
	case strings.HasPrefix(cq.Data, callbackDeleteProject):
		id, err := strconv.ParseInt(strings.TrimPrefix(cq.Data, callbackDeleteProject), 10, 64)
		if err != nil {
			return
		}
		h.deleteProject(ctx, chatID, u, id)
	}
}

func (h *Handler) answerCallback(ctx context.Context, callbackID string) {
	if _, err := h.sender.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		logger.From(ctx).Error("failed to answer callback query", "error", err)
	}
}

func (h *Handler) projectIDArg(ctx context.Context, msg *tgbotapi.Message, command string) (int64, bool) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("Укажи ID проекта: /%s <id>", command))
		return 0, false
	}
	id, err := strconv.ParseInt(strings.Fields(arg)[0], 10, 64)
	if err != nil {
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("ID проекта должен быть числом, например: /%s 1", command))
		return 0, false
	}
	return id, true
}

// --- expenses ---

func (h *Handler) handleExpense(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if msg.IsCommand() {
		text = strings.TrimSpace(msg.CommandArguments())
	}
	if text == "" || isMenuButton(text) {
		return
	}

	u, err := h.identify(ctx, msg.From)
	if err != nil {
		h.replyInternalError(ctx, chatID, err)
		return
	}

	p, err := h.activeProject(ctx, chatID, u,
		"У тебя пока нет активного проекта.\nСоздай новый через /newproject, затем пришли трату ещё раз.")
	if p == nil || err != nil {
		return
	}

	draft, err := h.resolver.Resolve(ctx, text)
	if err != nil {
		if errors.Is(err, internal.ErrParseFailure) {
			h.reply(ctx, chatID, "Не смог понять сумму траты 😔\n"+
				"Попробуй формат типа: <code>отели 65000</code> "+
				"или <code>сувенир 10 юаней</code>.")
			return
		}
		h.replyInternalError(ctx, chatID, err)
		return
	}

	recorded, err := h.expenses.Record(ctx, u, p, draft)
	if err != nil {
		h.replyInternalError(ctx, chatID, err)
		return
	}

	totals, err := h.expenses.Totals(p.ID)
	if err != nil {
		h.replyInternalError(ctx, chatID, err)
		return
	}

	h.reply(ctx, chatID, h.recordedReply(p, recorded, totals))
}

func (h *Handler) recordedReply(p *projectDatamodel.Project, e *expense.Expense, totals *expense.ProjectTotals) string {
	lines := []string{
		fmt.Sprintf("Записал трату в проект <b>«%s»</b> ✅", p.Name),
		fmt.Sprintf("Категория: <b>%s</b>", capitalize(e.CategoryName)),
	}
	if e.CurrencyOriginal == h.reporting {
		lines = append(lines, fmt.Sprintf("Сумма: <b>%s %s</b>",
			formatAmount(e.AmountOriginal), h.reporting))
	} else {
		lines = append(lines, fmt.Sprintf("Сумма: <b>%s %s</b> ≈ <b>%s %s</b>",
			formatAmount(e.AmountOriginal), e.CurrencyOriginal,
			formatAmount(e.AmountReporting), h.reporting))
	}

	lines = append(lines, "", "Итоги по проекту:")
	for _, t := range totals.ByCurrency {
		lines = append(lines, fmt.Sprintf("• %s: <b>%s</b>", t.Code, formatAmount(t.Total)))
	}
	lines = append(lines, "", fmt.Sprintf("Общий бюджет в %s: <b>%s %s</b>",
		h.reporting, formatAmount(totals.TotalReporting), h.reporting))

	return strings.Join(lines, "\n")
}

// --- report ---

func (h *Handler) handleReport(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	u, err := h.identify(ctx, msg.From)
	if err != nil {
		h.replyInternalError(ctx, chatID, err)
		return
	}

	p, err := h.activeProject(ctx, chatID, u,
		"У тебя нет активного проекта.\nСоздай проект через /newproject.")
	if p == nil || err != nil {
		return
	}

	text, summary, err := h.reports.Build(p.ID, p.Name)
	if err != nil {
		h.replyInternalError(ctx, chatID, err)
		return
	}
	h.reply(ctx, chatID, text)

	if digest := h.reports.Summarize(ctx, summary); digest != "" {
		h.reply(ctx, chatID, digest)
	}
}

// --- shared helpers ---

func (h *Handler) identify(ctx context.Context, from *tgbotapi.User) (*userDatamodel.User, error) {
	return h.users.GetOrCreate(user.Identity{
		TelegramID: from.ID,
		Username:   from.UserName,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
	})
}

// activeProject resolves the user's active project, replying with prompt
// when there is none. A nil project with nil error means "already handled".
func (h *Handler) activeProject(ctx context.Context, chatID int64, u *userDatamodel.User, prompt string) (*projectDatamodel.Project, error) {
	p, err := h.projects.Active(u.ID)
	if err != nil {
		if errors.Is(err, internal.ErrNoActiveProject) {
			h.reply(ctx, chatID, prompt)
			return nil, nil
		}
		h.replyInternalError(ctx, chatID, err)
		return nil, err
	}
	return p, nil
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	h.send(ctx, msg)
}

func (h *Handler) replyInternalError(ctx context.Context, chatID int64, err error) {
	logger.From(ctx).Error("handler failed", "chat_id", chatID, "error", err)
	h.reply(ctx, chatID, "Что-то пошло не так, попробуй ещё раз чуть позже.")
}

func (h *Handler) send(ctx context.Context, c tgbotapi.Chattable) {
	if _, err := h.sender.Send(c); err != nil {
		logger.From(ctx).Error("failed to send message", "error", err)
	}
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
