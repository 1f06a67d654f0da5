package entity

import (
	"strings"

	"github.com/samber/lo"
)

// Channel is the delivery route named in an otp_requested message.
type Channel int16

const (
	ChannelUnknown Channel = iota
	ChannelEmail
	ChannelSMS
)

var channelNames = map[Channel]string{
	ChannelEmail: "email",
	ChannelSMS:   "sms",
}

// ChannelFromString accepts the wire names case-insensitively.
func ChannelFromString(raw string) Channel {
	ch, ok := lo.FindKey(channelNames, strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return ChannelUnknown
	}
	return ch
}

func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return "unknown"
}
