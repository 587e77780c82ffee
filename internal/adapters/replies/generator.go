package replies

import (
	"reddit-lead-finder/internal/domain"
)

// draftsPerPost задаёт, сколько вариантов ответа готовится на пост.
const draftsPerPost = 2

// Disclosure добавляется к первому варианту, если в ответе есть ссылка.
const Disclosure = "(Disclosure: I help build TradingWizard.ai)"

// Tips содержит полезные советы по метке намерения, ровно по два на метку.
var Tips = map[domain.Intent][]string{
	domain.IntentToolSeeking: {
		"Start by defining your edge: timeframe, markets, and setup type. Map key S/R levels, confirm with momentum indicators like RSI or MACD, and always set an invalidation point.",
		"Build a simple checklist first: identify trend, mark zones, wait for confirmation, size position, set stops. Keep it mechanical so emotions don't override your process.",
	},
	domain.IntentHowTo: {
		"Break it into steps: 1) Define what you're analyzing (trend, breakout, reversal), 2) Overlay your key levels, 3) Add 1-2 confirmation indicators, 4) Document your setup rules.",
		"Start simple: use price action + volume first, then add one indicator at a time. Most profitable setups don't need 10 indicators cluttering the chart.",
	},
	domain.IntentProblemSolving: {
		"If you're getting whipsawed, try adding an ATR filter so you only trade when volatility exceeds your threshold. Also, check if you're trading during choppy market hours.",
		"Common issue: too many indicators giving conflicting signals. Strip it down to price action, volume, and one momentum indicator. Keep your edge simple and repeatable.",
	},
	domain.IntentShowAndTell: {
		"Nice work! The key to making tools stick is iteration: track what's working in a journal and refine your rules based on real results.",
		"Looks solid. If you want to level it up, consider adding a backtesting layer so you can validate edge before going live.",
	},
	domain.IntentGeneral: {
		"For consistent results, focus on repeatability: document your setups, track your stats, and refine what's actually profitable vs what just feels good.",
		"The best edge is often the simplest one you'll actually follow. Start with a core setup, master it, then expand.",
	},
}

// CTAWithLink содержит мягкие призывы со ссылкой на продукт.
var CTAWithLink = []string{
	"If you want a quick AI breakdown of your chart, you can try TradingWizard.ai's Chart Analyzer. Just upload a screenshot and it gives you a structured setup.",
	"We built TradingWizard.ai for exactly this: AI-powered chart analysis, algo bots, and daily market scans. Free to try, no card needed.",
	"I work on TradingWizard.ai where we automate a lot of this (chart analysis, signals, backtests). Happy to point you there if you want the AI to handle the heavy lifting.",
}

// CTANoLink используются там, где ссылки запрещены правилами сообщества.
var CTANoLink = []string{
	"Tools that automate chart reading and setup identification can help speed this up significantly.",
	"There are platforms now that use AI to handle chart analysis and generate trade setups if you want to explore that route.",
}

// Generator собирает черновики ответов из библиотеки шаблонов.
type Generator struct{}

// NewGenerator создаёт генератор.
func NewGenerator() *Generator {
	return &Generator{}
}

var _ domain.ReplyGenerator = (*Generator)(nil)

// Generate возвращает ровно два варианта ответа для метки намерения.
func (g *Generator) Generate(intent domain.Intent, includeLink bool) []domain.ReplyDraft {
	tips, ok := Tips[intent]
	if !ok {
		tips = Tips[domain.IntentGeneral]
	}
	ctas := CTANoLink
	if includeLink {
		ctas = CTAWithLink
	}

	drafts := make([]domain.ReplyDraft, 0, draftsPerPost)
	for i, tip := range tips[:min(len(tips), draftsPerPost)] {
		text := tip + " " + ctas[i%len(ctas)]
		if includeLink && i == 0 {
			text += " " + Disclosure
		}
		drafts = append(drafts, domain.ReplyDraft{
			Variant: string(rune('A' + i)),
			Text:    text,
		})
	}
	return drafts
}
