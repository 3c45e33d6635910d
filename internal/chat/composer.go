package chat

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/hongjun500/chat-client/internal/observe"
	"github.com/hongjun500/chat-client/internal/protocol"
	"github.com/hongjun500/chat-client/internal/transport"
	"github.com/hongjun500/chat-client/pkg/logger"
)

// ComposerOptions 出站组装参数
type ComposerOptions struct {
	CommandPrefix    string        // 默认 "/get"
	LocationKeywords []string      // 命令前缀之后需要附带坐标的关键字，默认 DefaultLocationKeywords
	NoticeDuration   time.Duration // 默认 2500ms
}

// Composer 把四类输入（文本、定位、文件、录音）组装成出站信封
type Composer struct {
	sender   Sender
	notifier Notifier
	geo      Geolocator
	recorder Recorder
	factory  *protocol.MessageFactory
	opt      ComposerOptions
	now      func() time.Time
	log      *zap.SugaredLogger
}

// NewComposer geo 与 recorder 可以为 nil，表示设备不具备该能力
func NewComposer(sender Sender, notifier Notifier, geo Geolocator, recorder Recorder, opt ComposerOptions) *Composer {
	if opt.CommandPrefix == "" {
		opt.CommandPrefix = protocol.CommandPrefix
	}
	if opt.NoticeDuration <= 0 {
		opt.NoticeDuration = DefaultNoticeDuration
	}
	if len(opt.LocationKeywords) == 0 {
		opt.LocationKeywords = DefaultLocationKeywords
	}
	return &Composer{
		sender:   sender,
		notifier: notifier,
		geo:      geo,
		recorder: recorder,
		factory:  protocol.NewMessageFactory(),
		opt:      opt,
		now:      time.Now,
		log:      logger.Named("composer").Sugar(),
	}
}

// SubmitText 提交输入框文本。
//
// 空文本只提示不发送；命令先发 command（定位类命令附带坐标），
// 然后无论命令分支结果如何都再发一条 newMessage。
// 两次发送都成功才清空输入框，任一失败只提示一次并保留输入。
func (c *Composer) SubmitText(ctx context.Context, in TextInput) error {
	text := strings.TrimSpace(in.Value())
	if text == "" {
		c.notify(ControlTextInput, MsgEmptyInput)
		return ErrEmptyInput
	}

	var cmdErr error
	switch {
	case c.isLocationCommand(text):
		loc, err := c.position(ctx)
		if err != nil {
			c.log.Infow("command_location_error", "err", err)
			c.notify(ControlGeolocation, err.Error())
			break
		}
		cmdErr = c.sender.Send(c.factory.CreateCommandMessage(text, &loc))
	case strings.HasPrefix(text, c.opt.CommandPrefix):
		cmdErr = c.sender.Send(c.factory.CreateCommandMessage(text, nil))
	}

	err := c.sender.Send(c.factory.CreateTextMessage(text))
	// 未连接时两次发送都会失败，只提示第一个错误
	if cmdErr != nil {
		err = cmdErr
	}
	if err != nil {
		return c.sendFailed(ControlSend, err)
	}
	in.SetValue("")
	return nil
}

// CompleteCommand 输入框为空时补全命令前缀，返回是否补全
func (c *Composer) CompleteCommand(in TextInput) bool {
	if in.Value() != "" {
		return false
	}
	in.SetValue(c.opt.CommandPrefix + " ")
	return true
}

// SendLocation 获取坐标并发送 geolocation 消息
func (c *Composer) SendLocation(ctx context.Context) error {
	loc, err := c.position(ctx)
	if err != nil {
		c.log.Infow("geolocation_error", "err", err)
		c.notify(ControlGeolocation, MsgNoCoordinates)
		return err
	}
	if err := c.sender.Send(c.factory.CreateGeolocationMessage(loc)); err != nil {
		return c.sendFailed(ControlGeolocation, err)
	}
	return nil
}

// SendFile 把文件编码为 data URL 后上传；未声明媒体类型时按内容识别
func (c *Composer) SendFile(ctx context.Context, f File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	category := f.Type
	if category == "" {
		if kind, err := filetype.Match(f.Data); err == nil && kind != filetype.Unknown {
			category = kind.MIME.Value
		}
	}
	if category == "" {
		c.notify(ControlUpload, MsgUnsupportedFormat)
		return ErrUnsupportedFile
	}

	env := c.factory.CreateUploadMessage(EncodeDataURL(category, f.Data), protocol.FileInfo{
		Name:     f.Name,
		Category: category,
	})
	if err := c.sender.Send(env); err != nil {
		return c.sendFailed(ControlUpload, err)
	}
	c.log.Debugw("file_uploaded", "name", f.Name, "category", category, "size", len(f.Data))
	return nil
}

// StartRecording 开始录音
func (c *Composer) StartRecording(ctx context.Context) error {
	if c.recorder == nil {
		c.notify(ControlRecord, MsgNoAudioDevice)
		return ErrRecorderUnavailable
	}
	if err := c.recorder.Start(ctx); err != nil {
		c.notify(ControlRecord, err.Error())
		return err
	}
	return nil
}

// StopRecording 停止录音，并把片段当作音频文件走上传流程
func (c *Composer) StopRecording(ctx context.Context) error {
	if c.recorder == nil {
		return ErrRecorderUnavailable
	}
	clip, err := c.recorder.Stop()
	if err != nil {
		c.notify(ControlRecord, err.Error())
		return err
	}
	return c.SendFile(ctx, File{
		Name: "voice-" + c.now().Format("20060102-150405") + ".ogg",
		Type: protocol.AudioMediaType,
		Data: clip,
	})
}

// EncodeDataURL 自包含的文件编码，无需服务端即可预览
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (c *Composer) isLocationCommand(text string) bool {
	if !strings.HasPrefix(text, c.opt.CommandPrefix+" ") {
		return false
	}
	rest := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(text, c.opt.CommandPrefix)))
	for _, kw := range c.opt.LocationKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.HasPrefix(rest, kw) {
			return true
		}
	}
	return false
}

func (c *Composer) position(ctx context.Context) (protocol.Coordinates, error) {
	if c.geo == nil {
		return protocol.Coordinates{}, ErrGeolocationUnavailable
	}
	return c.geo.CurrentPosition(ctx)
}

func (c *Composer) sendFailed(anchor Control, err error) error {
	c.log.Warnw("send_error", "control", anchor, "code", transport.CodeOf(err), "err", err)
	if errors.Is(err, transport.ErrNotConnected) {
		c.notify(anchor, MsgNotConnected)
	} else {
		c.notify(anchor, err.Error())
	}
	return err
}

func (c *Composer) notify(anchor Control, msg string) {
	observe.IncNotice(string(anchor))
	c.notifier.Show(anchor, msg, c.opt.NoticeDuration)
}
