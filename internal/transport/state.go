package transport

// State 连接状态
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "disconnected"
	}
}

// CanConnect 连接入口是否可用：既不在连接中也没有已连接
func (s State) CanConnect() bool {
	return s != StateConnecting && s != StateConnected
}
