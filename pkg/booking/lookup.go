package booking

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"rcb-marathon/pkg/client"
)

// CategorySource 按赛事获取组别
type CategorySource interface {
	ListCategories(ctx context.Context, eventID int64) ([]client.Category, error)
}

// LookupState 组别下拉框的当前状态
type LookupState struct {
	EventID    string
	Categories []client.Category
	Loading    bool
	Err        error
}

// Disabled 加载中或没有可选组别时下拉框不可用
func (s LookupState) Disabled() bool {
	return s.Loading || len(s.Categories) == 0
}

// Has 判断组别是否属于当前赛事
func (s LookupState) Has(categoryID string) bool {
	id, err := strconv.ParseInt(strings.TrimSpace(categoryID), 10, 64)
	if err != nil {
		return false
	}
	for _, c := range s.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryLookup 每次切换赛事都重新拉取组别
//
// 每次拉取带有递增的代号，只有最新一次的结果会被采用，旧请求会被取消。
// onUpdate 按顺序逐个调用，且只会收到最新代号的状态；回调中不能再调用 Select。
type CategoryLookup struct {
	source   CategorySource
	onUpdate func(LookupState)

	// deliver 串行化回调，mu 保护其余字段
	deliver sync.Mutex
	mu      sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  LookupState
	closed bool
	wg     sync.WaitGroup
}

func NewCategoryLookup(source CategorySource, onUpdate func(LookupState)) *CategoryLookup {
	return &CategoryLookup{source: source, onUpdate: onUpdate}
}

// Select 切换到 eventID 并在后台拉取组别，返回本次拉取的代号
func (l *CategoryLookup) Select(ctx context.Context, eventID string) uint64 {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	gen := l.gen

	id, err := strconv.ParseInt(strings.TrimSpace(eventID), 10, 64)
	if l.closed || err != nil || id <= 0 {
		l.state = LookupState{EventID: eventID}
		st := l.state
		l.mu.Unlock()
		l.notify(gen, st)
		return gen
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state = LookupState{EventID: eventID, Loading: true}
	st := l.state
	l.wg.Add(1)
	l.mu.Unlock()
	l.notify(gen, st)

	go l.fetch(fetchCtx, cancel, gen, eventID, id)
	return gen
}

func (l *CategoryLookup) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, eventID string, id int64) {
	defer l.wg.Done()
	defer cancel()

	categories, err := l.source.ListCategories(ctx, id)

	l.mu.Lock()
	if gen != l.gen {
		// 已有更新的请求，丢弃
		l.mu.Unlock()
		return
	}
	l.cancel = nil
	if err != nil {
		l.state = LookupState{EventID: eventID, Err: err}
	} else {
		l.state = LookupState{EventID: eventID, Categories: categories}
	}
	st := l.state
	l.mu.Unlock()
	l.notify(gen, st)
}

// State 返回当前状态的副本
func (l *CategoryLookup) State() LookupState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state
	st.Categories = append([]client.Category(nil), l.state.Categories...)
	return st
}

// Wait 等待所有后台拉取结束
func (l *CategoryLookup) Wait() {
	l.wg.Wait()
}

// Close 取消进行中的拉取，之后的结果都会被丢弃
func (l *CategoryLookup) Close() {
	l.mu.Lock()
	l.closed = true
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.mu.Unlock()
	l.wg.Wait()
}

// notify 在持有 deliver 时再次核对代号，过期的状态不再推送
func (l *CategoryLookup) notify(gen uint64, st LookupState) {
	if l.onUpdate == nil {
		return
	}
	l.deliver.Lock()
	defer l.deliver.Unlock()

	l.mu.Lock()
	current := gen == l.gen
	l.mu.Unlock()
	if current {
		l.onUpdate(st)
	}
}
