package booking

import (
	"context"
	"errors"
	"fmt"

	"rcb-marathon/pkg/client"
	"rcb-marathon/pkg/web/model"
)

// ErrSubmissionFailed 报名提交失败的通用提示
var ErrSubmissionFailed = errors.New("registration failed, please try again")

type RegistrationAPI interface {
	SubmitRegistration(ctx context.Context, req model.CreateRegistrationReq) (client.RegistrationResult, error)
}

// Submitter 组装并提交一次报名，失败不重试
type Submitter struct {
	api       RegistrationAPI
	assembler *Assembler
}

func NewSubmitter(api RegistrationAPI, assembler *Assembler) *Submitter {
	return &Submitter{api: api, assembler: assembler}
}

// Submit 成功时返回报名ID，用于跳转确认页
func (s *Submitter) Submit(ctx context.Context, d *Draft) (int64, error) {
	req, err := s.assembler.Assemble(d)
	if err != nil {
		return 0, err
	}

	res, err := s.api.SubmitRegistration(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	if !res.Success || res.ID <= 0 {
		return 0, ErrSubmissionFailed
	}
	return res.ID, nil
}

// ConfirmationPath 报名确认页地址
func ConfirmationPath(id int64) string {
	return fmt.Sprintf("/booking/success?id=%d", id)
}
