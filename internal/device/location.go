package device

import (
	"context"

	"github.com/hongjun500/chat-client/internal/chat"
	"github.com/hongjun500/chat-client/internal/protocol"
)

// FixedLocation 返回配置好的坐标；未配置时表示设备无法定位
type FixedLocation struct {
	coords *protocol.Coordinates
}

var _ chat.Geolocator = FixedLocation{}

// NewFixedLocation lat/lon 任一为 nil 时定位不可用
func NewFixedLocation(lat, lon *float64) FixedLocation {
	if lat == nil || lon == nil {
		return FixedLocation{}
	}
	return FixedLocation{coords: &protocol.Coordinates{Latitude: *lat, Longitude: *lon}}
}

func (l FixedLocation) CurrentPosition(ctx context.Context) (protocol.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return protocol.Coordinates{}, err
	}
	if l.coords == nil {
		return protocol.Coordinates{}, chat.ErrGeolocationUnavailable
	}
	return *l.coords, nil
}
