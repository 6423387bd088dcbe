package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"

	"rcb-marathon/pkg/web/model"
)

const (
	DefaultCategoryName = "Unnamed Category"
	DefaultDistanceUnit = "km"
)

// Category 报名可选的组别
type Category struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Unit     string  `json:"unit"`
}

type Event struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	EventDate             string `json:"eventDate"`
	Location              string `json:"location"`
	StartTime             string `json:"startTime"`
	RegistrationOpenDate  string `json:"registrationOpenDate"`
	RegistrationCloseDate string `json:"registrationCloseDate"`
	MaxParticipants       int    `json:"maxParticipants"`
	Status                string `json:"eventStatus"`
	IsFeatured            bool   `json:"isFeatured"`
	WebsiteURL            string `json:"websiteUrl"`
}

// ListCategories 获取赛事下的组别，缺失字段使用默认值
func (c *Client) ListCategories(ctx context.Context, eventID int64) ([]Category, error) {
	body, err := c.do(ctx, methodGet, fmt.Sprintf("/api/events/%d/categories", eventID), nil)
	if err != nil {
		return nil, err
	}
	items := listItems(body)
	out := make([]Category, 0, len(items))
	for _, item := range items {
		out = append(out, decodeCategory(item))
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, eventID int64, req model.CreateCategoryReq) (Category, error) {
	body, err := c.do(ctx, methodPost, fmt.Sprintf("/api/events/%d/categories", eventID), req)
	if err != nil {
		return Category{}, err
	}
	return decodeCategory(objectOf(body)), nil
}

func (c *Client) DeleteCategory(ctx context.Context, eventID, categoryID int64) error {
	_, err := c.do(ctx, methodDelete, fmt.Sprintf("/api/events/%d/categories/%d", eventID, categoryID), nil)
	return err
}

// Presets 常用组别模板
func (c *Client) Presets(ctx context.Context) ([]Category, error) {
	body, err := c.do(ctx, methodGet, "/api/categories/presets", nil)
	if err != nil {
		return nil, err
	}
	items := listItems(body)
	out := make([]Category, 0, len(items))
	for _, item := range items {
		out = append(out, decodeCategory(item))
	}
	return out, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	return c.listEvents(ctx, "/api/events")
}

// ListOpenEvents 仅返回当前可报名的赛事
func (c *Client) ListOpenEvents(ctx context.Context) ([]Event, error) {
	return c.listEvents(ctx, "/api/events?open=true")
}

func (c *Client) listEvents(ctx context.Context, path string) ([]Event, error) {
	body, err := c.do(ctx, methodGet, path, nil)
	if err != nil {
		return nil, err
	}
	items := listItems(body)
	out := make([]Event, 0, len(items))
	for _, item := range items {
		out = append(out, decodeEvent(item))
	}
	return out, nil
}

func (c *Client) GetEvent(ctx context.Context, id int64) (Event, error) {
	body, err := c.do(ctx, methodGet, fmt.Sprintf("/api/events/%d", id), nil)
	if err != nil {
		return Event{}, err
	}
	return decodeEvent(objectOf(body)), nil
}

func (c *Client) CreateEvent(ctx context.Context, req model.CreateEventReq) (Event, error) {
	body, err := c.do(ctx, methodPost, "/api/events", req)
	if err != nil {
		return Event{}, err
	}
	return decodeEvent(objectOf(body)), nil
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	_, err := c.do(ctx, methodDelete, fmt.Sprintf("/api/events/%d", id), nil)
	return err
}

// FilterEvents 按名称或地点做大小写无关的包含匹配
func FilterEvents(events []Event, query string) []Event {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if strings.Contains(fold.String(e.Name), q) || strings.Contains(fold.String(e.Location), q) {
			out = append(out, e)
		}
	}
	return out
}

func decodeCategory(r gjson.Result) Category {
	cat := Category{
		ID:   firstOf(r, "categoryId", "id").Int(),
		Name: DefaultCategoryName,
		Unit: DefaultDistanceUnit,
	}
	if v := r.Get("name"); present(v) {
		cat.Name = v.String()
	}
	if v := r.Get("distance"); present(v) {
		cat.Distance = v.Float()
	}
	if v := firstOf(r, "unit", "distanceUnit"); present(v) {
		cat.Unit = v.String()
	}
	return cat
}

func decodeEvent(r gjson.Result) Event {
	return Event{
		ID:                    firstOf(r, "eventId", "id").Int(),
		Name:                  r.Get("name").String(),
		Description:           r.Get("description").String(),
		EventDate:             r.Get("eventDate").String(),
		Location:              r.Get("location").String(),
		StartTime:             r.Get("startTime").String(),
		RegistrationOpenDate:  r.Get("registrationOpenDate").String(),
		RegistrationCloseDate: r.Get("registrationCloseDate").String(),
		MaxParticipants:       int(r.Get("maxParticipants").Int()),
		Status:                r.Get("eventStatus").String(),
		IsFeatured:            r.Get("isFeatured").Bool(),
		WebsiteURL:            r.Get("websiteUrl").String(),
	}
}
