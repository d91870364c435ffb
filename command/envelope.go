package command

import (
	"strings"
	"time"

	imap "github.com/kestrelmail/imap-go"
	"github.com/kestrelmail/imap-go/wire"
)

// readEnvelope parses the ENVELOPE fetch attribute's parenthesized value
// (RFC 3501 §7.4.2): date, subject, five address-list fields, in-reply-to,
// and message-id, each an nstring or, for the address fields, a
// parenthesized list of address structures or NIL.
func readEnvelope(d *wire.Decoder) (*imap.Envelope, error) {
	env := &imap.Envelope{}
	if err := d.ExpectByte('('); err != nil {
		return nil, err
	}

	dateStr, _, err := d.ReadNString()
	if err != nil {
		return nil, err
	}
	if dateStr != "" {
		if t, err := parseEnvelopeDate(dateStr); err == nil {
			env.Date = t
		}
	}
	if err := d.ReadSP(); err != nil {
		return nil, err
	}

	subject, _, err := d.ReadNString()
	if err != nil {
		return nil, err
	}
	env.Subject = subject
	if err := d.ReadSP(); err != nil {
		return nil, err
	}

	fields := []*[]*imap.Address{&env.From, &env.Sender, &env.ReplyTo, &env.To, &env.Cc, &env.Bcc}
	for i, fp := range fields {
		addrs, err := readAddressList(d)
		if err != nil {
			return nil, err
		}
		*fp = addrs
		if i < len(fields)-1 {
			if err := d.ReadSP(); err != nil {
				return nil, err
			}
		}
	}

	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	inReplyTo, _, err := d.ReadNString()
	if err != nil {
		return nil, err
	}
	env.InReplyTo = inReplyTo

	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	messageID, _, err := d.ReadNString()
	if err != nil {
		return nil, err
	}
	env.MessageID = messageID

	return env, d.ExpectByte(')')
}

func parseEnvelopeDate(s string) (time.Time, error) {
	layouts := []string{
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"2 Jan 2006 15:04:05 -0700",
		time.RFC1123Z,
	}
	var lastErr error
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// readAddressList reads NIL or a parenthesized list of address structures.
func readAddressList(d *wire.Decoder) ([]*imap.Address, error) {
	b, err := d.PeekByte()
	if err != nil {
		return nil, err
	}
	if b != '(' {
		_, _, err := d.ReadNString()
		return nil, err
	}

	var addrs []*imap.Address
	err = d.ReadList(func() error {
		a, err := readAddress(d)
		if err != nil {
			return err
		}
		addrs = append(addrs, a)
		return nil
	})
	return addrs, err
}

func readAddress(d *wire.Decoder) (*imap.Address, error) {
	if err := d.ExpectByte('('); err != nil {
		return nil, err
	}
	name, _, err := d.ReadNString()
	if err != nil {
		return nil, err
	}
	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	// adl (source-route), unused by modern mail, discarded.
	if _, _, err := d.ReadNString(); err != nil {
		return nil, err
	}
	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	mailbox, _, err := d.ReadNString()
	if err != nil {
		return nil, err
	}
	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	host, _, err := d.ReadNString()
	if err != nil {
		return nil, err
	}
	if err := d.ExpectByte(')'); err != nil {
		return nil, err
	}
	return &imap.Address{Name: name, Mailbox: mailbox, Host: host}, nil
}

// readBodyStructure parses the BODY/BODYSTRUCTURE fetch attribute. Only
// the fields spec.md §3's BodyStructure type carries are retained;
// extension fields the server appends after Location are skipped.
func readBodyStructure(d *wire.Decoder) (*imap.BodyStructure, error) {
	if err := d.ExpectByte('('); err != nil {
		return nil, err
	}
	b, err := d.PeekByte()
	if err != nil {
		return nil, err
	}

	bs := &imap.BodyStructure{}
	if b == '(' {
		bs.Type = "multipart"
		for {
			child, err := readBodyStructure(d)
			if err != nil {
				return nil, err
			}
			bs.Children = append(bs.Children, *child)
			b, err := d.PeekByte()
			if err != nil {
				return nil, err
			}
			if b != '(' {
				break
			}
		}
		if err := d.ReadSP(); err != nil {
			return nil, err
		}
		subtype, _, err := d.ReadNString()
		if err != nil {
			return nil, err
		}
		bs.Subtype = subtype
		readExtensionFields(d, bs)
		return bs, d.ExpectByte(')')
	}

	typ, _, err := d.ReadNString()
	if err != nil {
		return nil, err
	}
	bs.Type = typ
	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	subtype, _, err := d.ReadNString()
	if err != nil {
		return nil, err
	}
	bs.Subtype = subtype
	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	bs.Params, err = readParamList(d)
	if err != nil {
		return nil, err
	}
	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	if bs.ID, _, err = d.ReadNString(); err != nil {
		return nil, err
	}
	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	if bs.Description, _, err = d.ReadNString(); err != nil {
		return nil, err
	}
	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	if bs.Encoding, _, err = d.ReadNString(); err != nil {
		return nil, err
	}
	if err := d.ReadSP(); err != nil {
		return nil, err
	}
	size, err := d.ReadNumber()
	if err != nil {
		return nil, err
	}
	bs.Size = size

	if strings.EqualFold(typ, "message") && strings.EqualFold(subtype, "rfc822") {
		if err := d.ReadSP(); err != nil {
			return nil, err
		}
		env, err := readEnvelope(d)
		if err != nil {
			return nil, err
		}
		bs.Envelope = env
		if err := d.ReadSP(); err != nil {
			return nil, err
		}
		inner, err := readBodyStructure(d)
		if err != nil {
			return nil, err
		}
		bs.BodyStructure = inner
		if err := d.ReadSP(); err != nil {
			return nil, err
		}
		lines, err := d.ReadNumber()
		if err != nil {
			return nil, err
		}
		bs.Lines = lines
	} else if strings.EqualFold(typ, "text") {
		if err := d.ReadSP(); err != nil {
			return nil, err
		}
		lines, err := d.ReadNumber()
		if err != nil {
			return nil, err
		}
		bs.Lines = lines
	}

	readExtensionFields(d, bs)
	return bs, d.ExpectByte(')')
}

func readParamList(d *wire.Decoder) (map[string]string, error) {
	b, err := d.PeekByte()
	if err != nil {
		return nil, err
	}
	if b != '(' {
		_, _, err := d.ReadNString()
		return nil, err
	}
	params := map[string]string{}
	var key string
	i := 0
	err = d.ReadList(func() error {
		s, _, err := d.ReadNString()
		if err != nil {
			return err
		}
		if i%2 == 0 {
			key = s
		} else {
			params[key] = s
		}
		i++
		return nil
	})
	return params, err
}

// readExtensionFields parses the optional MD5/disposition/language/location
// extension data (RFC 3501 §7.4.2) onto bs, then discards anything past
// Location up to the closing paren without surfacing it. Any field may be
// absent if the server stops early; that's not an error.
func readExtensionFields(d *wire.Decoder, bs *imap.BodyStructure) {
	if peek(d) == ')' {
		return
	}
	if err := d.ReadSP(); err != nil {
		return
	}
	if bs.MD5, _, _ = d.ReadNString(); peek(d) == ')' {
		return
	}

	if err := d.ReadSP(); err != nil {
		return
	}
	if peek(d) == '(' {
		_ = d.ReadList(func() error {
			disp, _, err := d.ReadNString()
			if err != nil {
				return err
			}
			bs.Disposition = disp
			if peek(d) != ' ' {
				return nil
			}
			if err := d.ReadSP(); err != nil {
				return err
			}
			params, err := readParamList(d)
			bs.DispositionParams = params
			return err
		})
	} else {
		_, _, _ = d.ReadNString()
	}
	if peek(d) == ')' {
		return
	}

	if err := d.ReadSP(); err != nil {
		return
	}
	switch peek(d) {
	case '(':
		_ = d.ReadList(func() error {
			s, err := d.ReadAString()
			if err != nil {
				return err
			}
			bs.Language = append(bs.Language, s)
			return nil
		})
	default:
		if lang, ok, _ := d.ReadNString(); ok {
			bs.Language = []string{lang}
		}
	}
	if peek(d) == ')' {
		return
	}

	if err := d.ReadSP(); err != nil {
		return
	}
	bs.Location, _, _ = d.ReadNString()

	// Any remaining body extension data (future RFC extensions) is
	// discarded.
	for peek(d) != ')' {
		if err := d.ReadSP(); err != nil {
			return
		}
		if err := skipValue(d); err != nil {
			return
		}
	}
}

// peek returns the next byte, or 0 on error (typically EOF at the closing
// paren's position already consumed).
func peek(d *wire.Decoder) byte {
	b, err := d.PeekByte()
	if err != nil {
		return 0
	}
	return b
}

func skipValue(d *wire.Decoder) error {
	b, err := d.PeekByte()
	if err != nil {
		return err
	}
	if b == '(' {
		return d.ReadList(func() error { return skipValue(d) })
	}
	_, _, err = d.ReadNString()
	return err
}
