package md2mail

import (
	"io"
	"mime"
	"path"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// envelope holds the message headers.
type envelope struct {
	Sender  *Sender
	Subject string
	Date    time.Time
	Domain  string
}

// buildMessage assembles a multipart message: a text/plain part with a
// text/html alternative, plus one related part per distinct Content-ID.
func buildMessage(env envelope, text, htmlBody string, images []InlinedImage) *gomail.Message {
	m := gomail.NewMessage()

	if env.Sender != nil && env.Sender.Email != "" {
		m.SetAddressHeader("From", env.Sender.Email, env.Sender.Name)
	}
	m.SetHeader("Subject", env.Subject)
	m.SetDateHeader("Date", env.Date)
	m.SetHeader("Message-ID", "<"+uuid.NewString()+"@"+env.Domain+">")

	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", htmlBody)

	embedded := make(map[string]bool, len(images))
	for _, img := range images {
		if embedded[img.ContentID] {
			continue
		}
		embedded[img.ContentID] = true
		embedImage(m, img)
	}

	return m
}

// embedImage attaches img inline, streaming its bytes from memory.
func embedImage(m *gomail.Message, img InlinedImage) {
	data := img.Data
	name := path.Base(img.Src)
	m.Embed(name,
		gomail.Rename(name),
		gomail.SetHeader(map[string][]string{
			"Content-ID":   {"<" + img.ContentID + ">"},
			"Content-Type": {mime.FormatMediaType(img.ContentType(), map[string]string{"name": name})},
		}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}),
	)
}
