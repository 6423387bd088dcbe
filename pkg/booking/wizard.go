package booking

import (
	"context"
	"errors"

	"rcb-marathon/pkg/client"
	"rcb-marathon/pkg/common/clock"
)

type Step int

const (
	StepDetails Step = 1
	StepPayment Step = 2
)

var (
	ErrLoginRequired  = errors.New("please log in to complete your registration")
	ErrNotPaymentStep = errors.New("booking: registration can only be submitted from the payment step")
)

// SessionProvider 提供当前登录会话
type SessionProvider interface {
	Session() *client.Session
}

// Wizard 两步报名流程：个人信息 → 支付
type Wizard struct {
	draft *Draft
	step  Step

	submitter    *Submitter
	sessions     SessionProvider
	clock        clock.Clock
	onStepChange func(Step)
	requireLogin func()
}

type Option func(*Wizard)

// WithOnStepChange 进入支付步骤后回调，用于回到页面顶部
func WithOnStepChange(fn func(Step)) Option {
	return func(w *Wizard) { w.onStepChange = fn }
}

// WithRequireLogin 未登录提交时回调，用于弹出登录框
func WithRequireLogin(fn func()) Option {
	return func(w *Wizard) { w.requireLogin = fn }
}

func WithSubmitter(s *Submitter, sessions SessionProvider) Option {
	return func(w *Wizard) {
		w.submitter = s
		w.sessions = sessions
	}
}

func WithClock(clk clock.Clock) Option {
	return func(w *Wizard) { w.clock = clk }
}

func NewWizard(draft *Draft, opts ...Option) *Wizard {
	if draft == nil {
		draft = &Draft{}
	}
	w := &Wizard{draft: draft, step: StepDetails, clock: clock.NewSystem()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) Draft() *Draft {
	return w.draft
}

// Advance 第一步必填项完整时进入支付步骤，否则停留并返回 ErrStepIncomplete
func (w *Wizard) Advance() error {
	if err := ValidateDetails(w.draft); err != nil {
		return err
	}
	w.step = StepPayment
	if w.onStepChange != nil {
		w.onStepChange(w.step)
	}
	return nil
}

// Retreat 无条件回到第一步
func (w *Wizard) Retreat() {
	w.step = StepDetails
}

// Submit 在支付步骤提交报名，返回报名ID
func (w *Wizard) Submit(ctx context.Context) (int64, error) {
	if w.step != StepPayment {
		return 0, ErrNotPaymentStep
	}
	if w.submitter == nil {
		return 0, ErrSubmissionFailed
	}
	if w.sessions != nil && !w.sessions.Session().Valid(w.clock.Now()) {
		if w.requireLogin != nil {
			w.requireLogin()
		}
		return 0, ErrLoginRequired
	}
	return w.submitter.Submit(ctx, w.draft)
}
