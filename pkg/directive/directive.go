// Package directive builds x-tos-process directive strings.
//
// A directive instructs TOS to run one or more media-processing actions
// on an object before returning it. The wire form is a compact
// slash/comma micro-language:
//
//	<class>/<action>[,<k>_<v>...][/<action>[,<k>_<v>...]...]
//
// e.g. "image/resize,m_lfit,w_100/format,png". Each action validates
// its own parameters before encoding; free-text values (watermark text,
// watermark image keys, font names) are URL-safe base64 encoded with
// padding stripped, per the TOS processing API.
package directive

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParam indicates an action parameter failed validation.
var ErrInvalidParam = errors.New("invalid directive parameter")

// ErrEmptyPipeline indicates a pipeline with no actions.
var ErrEmptyPipeline = errors.New("empty directive pipeline")

// Class identifies the processing family a pipeline belongs to.
type Class string

const (
	// ClassImage covers image transformation actions.
	ClassImage Class = "image"

	// ClassVideo covers video actions (info, snapshot).
	ClassVideo Class = "video"
)

// Action is a single processing step inside a pipeline.
//
// Params returns the comma segments that follow the action name in the
// wire form, already encoded. Implementations validate their fields and
// return ErrInvalidParam-wrapped errors on bad input.
type Action interface {
	// Name is the action's wire name (e.g. "resize").
	Name() string

	// Params returns the encoded parameter segments in canonical order.
	Params() ([]string, error)
}

// Pipeline is an ordered chain of actions under a single class.
type Pipeline struct {
	class   Class
	actions []Action
}

// Image builds an image-class pipeline.
func Image(actions ...Action) *Pipeline {
	return &Pipeline{class: ClassImage, actions: actions}
}

// Video builds a video-class pipeline.
func Video(actions ...Action) *Pipeline {
	return &Pipeline{class: ClassVideo, actions: actions}
}

// Encode renders the pipeline in wire form.
func (p *Pipeline) Encode() (string, error) {
	if len(p.actions) == 0 {
		return "", ErrEmptyPipeline
	}

	var b strings.Builder
	b.WriteString(string(p.class))
	for _, a := range p.actions {
		params, err := a.Params()
		if err != nil {
			return "", err
		}
		b.WriteByte('/')
		b.WriteString(a.Name())
		for _, s := range params {
			b.WriteByte(',')
			b.WriteString(s)
		}
	}
	return b.String(), nil
}

// Info requests file metadata ("image/info" or "video/info").
// The result is a JSON document, not media bytes.
type Info struct{}

// Name implements Action.
func (Info) Name() string { return "info" }

// Params implements Action.
func (Info) Params() ([]string, error) { return nil, nil }

// Raw validates a caller-supplied process URI for pass-through use.
//
// The URI is not parsed into actions; only the class prefix is checked
// so that arbitrary query content cannot be smuggled into the request.
func Raw(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("%w: empty process uri", ErrInvalidParam)
	}
	if !strings.HasPrefix(uri, string(ClassImage)+"/") && !strings.HasPrefix(uri, string(ClassVideo)+"/") {
		return "", fmt.Errorf("%w: process uri must start with %q or %q: %s",
			ErrInvalidParam, ClassImage, ClassVideo, uri)
	}
	return uri, nil
}

// EncodeSaveTarget encodes a save-as object or bucket name for the
// x-tos-save-object / x-tos-save-bucket query parameters.
//
// Save-as targets use standard base64 with padding; this is distinct
// from the URL-safe unpadded encoding used inside directives.
func EncodeSaveTarget(name string) string {
	return base64.StdEncoding.EncodeToString([]byte(name))
}

// encodeValue encodes a free-text parameter value for embedding in a
// directive (URL-safe base64, padding stripped).
func encodeValue(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

// invalidParam builds an ErrInvalidParam-wrapped error for one field.
func invalidParam(action, param, reason string) error {
	return fmt.Errorf("%w: %s %s: %s", ErrInvalidParam, action, param, reason)
}

// inSet reports whether v is one of the allowed values.
func inSet(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
