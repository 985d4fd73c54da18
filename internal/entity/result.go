package entity

import "fmt"

// Stage — имя шага сценария ответа.
type Stage string

const (
	StageNavigate    Stage = "navigate"
	StageExtractName Stage = "extract_name"
	StageOpenReply   Stage = "open_reply"
	StageEnterText   Stage = "enter_text"
	StageSubmit      Stage = "submit"
)

// Stages returns the workflow stages in execution order.
func Stages() []Stage {
	return []Stage{StageNavigate, StageExtractName, StageOpenReply, StageEnterText, StageSubmit}
}

// Outcome различает два варианта результата.
type Outcome int

const (
	OutcomePosted Outcome = iota
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePosted:
		return "posted"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result — итог сценария для одной монеты. Никогда не превращается в фатальную ошибку:
// оркестратор только логирует его и идёт дальше.
type Result struct {
	Coin    Coin
	Outcome Outcome
	Name    string // каноническое имя, если его успели извлечь
	Text    string // отправленный текст (только для Posted)
	Stage   Stage  // упавший шаг (только для Failed)
	Err     error
}

// Posted builds a successful result.
func Posted(coin Coin, name, text string) Result {
	return Result{Coin: coin, Outcome: OutcomePosted, Name: name, Text: text}
}

// Failed builds a failed result carrying the stage that broke.
func Failed(coin Coin, name string, stage Stage, err error) Result {
	return Result{Coin: coin, Outcome: OutcomeFailed, Name: name, Stage: stage, Err: err}
}

func (r Result) OK() bool { return r.Outcome == OutcomePosted }

func (r Result) String() string {
	if r.OK() {
		return fmt.Sprintf("posted on %s (%s): %q", r.Coin.ID, r.Name, r.Text)
	}
	return fmt.Sprintf("failed on %s at %s: %v", r.Coin.ID, r.Stage, r.Err)
}
