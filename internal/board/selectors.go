// Package board знает разметку pump.fun: где на доске список монет, как открыть
// форму ответа на странице монеты и как залогиниться кошельком.
package board

// XPath-селекторы. Классы — из Tailwind-сборки сайта; при редизайне меняются здесь.
const (
	coinListXPath  = `//div[@data-sentry-component="CoinList"]`
	coinCardXPath  = `./div`
	coinIDAttr     = "id"
	coinNameXPath  = `//div[contains(@class, "text-[#F8FAFC]") and contains(@class, "font-medium")]`
	openReplyXPath = `//div[contains(text(), "post a reply") and contains(@class, "cursor-pointer")]`
	replyBoxXPath  = `//textarea[@id="text" and contains(@placeholder, "comment")]`
	submitXPath    = `//button[contains(text(), "post reply") and contains(@class, "bg-green-400")]`

	walletLoginXPath = `//button[contains(text(), "Wallet Login")]`
	secretInputXPath = `//input[@placeholder="Enter your secret key"]`
	loginSubmitXPath = `//button[contains(text(), "Submit")]`
)
