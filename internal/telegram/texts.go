package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

const helpText = "Commands:\n" +
	"/today — instant report\n" +
	"/weekly — 7-day outlook\n" +
	"/now — next ~3 hours\n" +
	"/setlocation <path or lat,lon> — timeanddate page path, or share GPS\n" +
	"/settime HH:MM — daily push time\n" +
	"/settz Area/City — IANA timezone\n" +
	"/mode api|llm — toggle LLM formatting\n" +
	"/source — links to the sources\n" +
	"/diag — renderer diagnostics"

const startText = "Astronomy Daily Bot ready.\n\n" + helpText

const (
	genericErrText     = "Something went wrong on our side. Please try again later."
	shareLocationText  = "Share GPS to enable ISS passes."
	setTimeUsageText   = "Usage: /settime HH:MM (24h), e.g., 17:00"
	setTZUsageText     = "Usage: /settz Area/City, e.g., America/Detroit"
	setLocationUsage   = "Send /setlocation <timeanddate path> (e.g., usa/detroit), " +
		"coordinates like 42.33,-83.04, or share GPS."
	badTimeText     = "Bad time. Use HH:MM, e.g., 15:00"
	badTZText       = "Unknown timezone. See the IANA tz database, e.g., America/Detroit."
	badLocationText = "Bad location. Use a timeanddate path like usa/detroit or lat,lon coordinates."
	modeUsageText   = "Usage: /mode api|llm"
)

// shareLocationKeyboard is a one-time reply keyboard with a GPS request button.
func shareLocationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("Share location"),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
