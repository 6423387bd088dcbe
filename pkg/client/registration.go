package client

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"rcb-marathon/pkg/web/model"
)

// RegistrationResult 报名提交结果，Success 取自响应体的 success 字段
type RegistrationResult struct {
	Success bool
	ID      int64
}

func (c *Client) SubmitRegistration(ctx context.Context, req model.CreateRegistrationReq) (RegistrationResult, error) {
	body, err := c.do(ctx, methodPost, "/api/registration", req)
	if err != nil {
		return RegistrationResult{}, err
	}
	root := gjson.ParseBytes(body)
	return RegistrationResult{
		Success: root.Get("success").Bool(),
		ID:      root.Get("data.registration.id").Int(),
	}, nil
}

// GetRegistration 报名确认页所需的详情
func (c *Client) GetRegistration(ctx context.Context, id int64) (model.RegistrationDetailsRes, error) {
	body, err := c.do(ctx, methodGet, fmt.Sprintf("/api/registration/%d", id), nil)
	if err != nil {
		return model.RegistrationDetailsRes{}, err
	}
	var out model.RegistrationDetailsRes
	if err := unmarshalObject(body, &out); err != nil {
		return model.RegistrationDetailsRes{}, err
	}
	return out, nil
}
