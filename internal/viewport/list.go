// Package viewport 模拟一个可滚动的消息列表：内容高度、可视高度与滚动偏移。
package viewport

import "sync"

// Node 渲染后的可视节点
type Node interface {
	Height() int
}

// List 以节点高度累计 scrollHeight，scrollTop 始终被夹在 [0, scrollHeight-clientHeight]
type List struct {
	mu           sync.RWMutex
	nodes        []Node
	clientHeight int
	scrollTop    int
	onChange     func()
}

// NewList 创建可视高度为 clientHeight 的列表
func NewList(clientHeight int) *List {
	return &List{clientHeight: clientHeight}
}

// OnChange 内容或滚动位置变化后回调，回调在锁外执行
func (l *List) OnChange(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.nodes)
}

// Nodes 返回节点快照，自上而下
func (l *List) Nodes() []Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Node(nil), l.nodes...)
}

// Append 追加到尾部
func (l *List) Append(n Node) {
	l.mu.Lock()
	l.nodes = append(l.nodes, n)
	l.mu.Unlock()
	l.changed()
}

// Prepend 插入到当前最早的节点之前
func (l *List) Prepend(n Node) {
	l.mu.Lock()
	l.nodes = append([]Node{n}, l.nodes...)
	l.mu.Unlock()
	l.changed()
}

// Clear 清空节点并回到顶部
func (l *List) Clear() {
	l.mu.Lock()
	l.nodes = nil
	l.scrollTop = 0
	l.mu.Unlock()
	l.changed()
}

func (l *List) ScrollHeight() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.scrollHeight()
}

func (l *List) ClientHeight() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.clientHeight
}

func (l *List) ScrollTop() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.scrollTop
}

func (l *List) SetScrollTop(top int) {
	l.mu.Lock()
	l.scrollTop = l.clamp(top)
	l.mu.Unlock()
	l.changed()
}

// ScrollToBottom 滚动到最新消息
func (l *List) ScrollToBottom() {
	l.mu.Lock()
	l.scrollTop = l.clamp(l.scrollHeight())
	l.mu.Unlock()
	l.changed()
}

// Visible 当前视口内（含部分可见）的节点
func (l *List) Visible() []Node {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Node
	y := 0
	for _, n := range l.nodes {
		h := n.Height()
		if y+h > l.scrollTop && y < l.scrollTop+l.clientHeight {
			out = append(out, n)
		}
		y += h
	}
	return out
}

func (l *List) scrollHeight() int {
	total := 0
	for _, n := range l.nodes {
		total += n.Height()
	}
	if total < l.clientHeight {
		return l.clientHeight
	}
	return total
}

func (l *List) clamp(top int) int {
	maxTop := l.scrollHeight() - l.clientHeight
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top
}

func (l *List) changed() {
	l.mu.RLock()
	fn := l.onChange
	l.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
