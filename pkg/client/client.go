// Package client is a typed client for the marathon REST API.
//
// Responses are decoded permissively: list endpoints may answer with a raw
// JSON array or with {"data": [...]}, and missing item fields fall back to
// defaults instead of failing the whole response. Failures are returned as
// *APIError values and nothing is retried.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	hzclient "github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/tidwall/gjson"

	"rcb-marathon/pkg/common/config"
)

// 无法从响应中得到更具体信息时使用的提示
const genericFailure = "something went wrong, please try again"

// APIError 非 2xx 响应或网络失败
type APIError struct {
	Status  int // 0 表示请求未得到响应
	Code    int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Status > 0:
		return fmt.Sprintf("HTTP error! status: %d", e.Status)
	default:
		return genericFailure
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusOf 返回错误携带的 HTTP 状态码，非 APIError 返回 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *hzclient.Client

	mu      sync.RWMutex
	session *Session
}

func New(cfg config.ClientConfig) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc, err := hzclient.NewClient(
		hzclient.WithDialTimeout(timeout),
		hzclient.WithClientReadTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("init http client: %w", err)
	}
	return &Client{
		baseURL: cfg.ResolveBaseURL(),
		timeout: timeout,
		http:    hc,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session 返回当前会话，未登录时为 nil
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) SetSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// do 发送一次请求，返回 2xx 响应体的副本
func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetRequestURI(c.baseURL + path)
	req.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	req.Header.SetUserAgentBytes([]byte("rcb-marathon-client"))
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentTypeBytes([]byte(consts.MIMEApplicationJSON))
		req.SetBody(data)
	}
	if s := c.Session(); s != nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	if err := c.http.DoTimeout(ctx, req, resp, c.timeout); err != nil {
		return nil, &APIError{Err: err}
	}

	payload := append([]byte(nil), resp.Body()...)
	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status}
		if gjson.ValidBytes(payload) {
			root := gjson.ParseBytes(payload)
			apiErr.Code = int(root.Get("code").Int())
			apiErr.Message = root.Get("error").String()
			if apiErr.Message == "" {
				apiErr.Message = root.Get("message").String()
			}
		}
		return nil, apiErr
	}
	return payload, nil
}

// listItems 兼容裸数组与 {data:[...]} 两种返回
func listItems(body []byte) []gjson.Result {
	if !gjson.ValidBytes(body) {
		return nil
	}
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Array()
	}
	if data := root.Get("data"); data.IsArray() {
		return data.Array()
	}
	return nil
}

// objectOf 兼容裸对象与 {data:{...}} 两种返回
func objectOf(body []byte) gjson.Result {
	root := gjson.ParseBytes(body)
	if data := root.Get("data"); data.IsObject() {
		return data
	}
	return root
}

// present 字段存在且不为 null/空串/0/false
func present(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.False:
		return false
	}
	return r.Exists()
}

func firstOf(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); present(v) {
			return v
		}
	}
	return gjson.Result{}
}

func unmarshalObject(body []byte, v interface{}) error {
	if err := json.Unmarshal([]byte(objectOf(body).Raw), v); err != nil {
		return &APIError{Message: "malformed response", Err: err}
	}
	return nil
}

const (
	methodGet    = consts.MethodGet
	methodPost   = consts.MethodPost
	methodPut    = consts.MethodPut
	methodDelete = consts.MethodDelete
)
