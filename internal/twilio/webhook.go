package twilio

import (
	"encoding/xml"
	"net/url"
	"strconv"
)

// InboundEvent is one messaging-provider webhook call. Transient: it exists
// only for the duration of one request.
type InboundEvent struct {
	Body        string
	NumMedia    int
	MediaURL    string
	ContentType string

	// AccountSID as posted by the provider; used as a credential fallback
	// when the environment does not supply one.
	AccountSID string
}

// EventFromForm decodes the provider's form-encoded webhook fields.
func EventFromForm(form url.Values) InboundEvent {
	numMedia, _ := strconv.Atoi(form.Get("NumMedia"))
	return InboundEvent{
		Body:        form.Get("Body"),
		NumMedia:    numMedia,
		MediaURL:    form.Get("MediaUrl0"),
		ContentType: form.Get("MediaContentType0"),
		AccountSID:  form.Get("AccountSid"),
	}
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// RenderTwiML wraps a reply message in the provider's TwiML envelope,
// XML-escaping the message body.
func RenderTwiML(message string) string {
	b, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		// xml.Marshal cannot fail on a string payload; guard anyway
		return xml.Header + "<Response><Message></Message></Response>"
	}
	return xml.Header + string(b)
}
