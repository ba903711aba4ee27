package constant

// Channel names a delivery channel a reminder can be dispatched through.
type Channel string

const (
	// ChannelLog writes the reminder to the service log. Always available.
	ChannelLog Channel = "log"
	// ChannelLine pushes a LINE Messaging API text message.
	ChannelLine Channel = "line"
	// ChannelFCM sends a Firebase Cloud Messaging push notification.
	ChannelFCM Channel = "fcm"
	// ChannelTwilio sends an SMS through Twilio.
	ChannelTwilio Channel = "twilio"
)

// DefaultReminderMessage is the text every reminder carries.
const DefaultReminderMessage = "Time to workout"

// ReminderTitle is the push notification title.
const ReminderTitle = "Workout reminder"

func (c Channel) String() string {
	return string(c)
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelLog, ChannelLine, ChannelFCM, ChannelTwilio:
		return true
	}
	return false
}
