package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/abhisek/scenelingo/internal/store"
)

// Call summarizes one generative request for observers.
type Call struct {
	Provider string
	Model    string
	Purpose  string
	Latency  time.Duration
	Usage    Usage
	Err      error
}

// Observer is notified after every generative request, successful or not.
type Observer interface {
	ObserveLLMCall(c Call)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Call)

func (f ObserverFunc) ObserveLLMCall(c Call) { f(c) }

// recorder holds what the text and image decorators share.
type recorder struct {
	provider  string
	eventRepo store.EventRepo
	observers []Observer
}

func (r *recorder) record(ctx context.Context, c Call, reqBody, respBody string) {
	fields := log.Fields{
		"provider": c.Provider,
		"model":    c.Model,
		"purpose":  c.Purpose,
		"latency":  c.Latency.Round(time.Millisecond),
		"tokens":   c.Usage.InputTokens + c.Usage.OutputTokens,
	}
	if c.Err != nil {
		log.WithFields(fields).WithField("class", Classify(c.Err)).WithError(c.Err).Warn("llm request failed")
	} else {
		log.WithFields(fields).Debug("llm request")
	}

	for _, o := range r.observers {
		o.ObserveLLMCall(c)
	}

	if r.eventRepo == nil {
		return
	}

	data := store.LLMRequestEventData{
		Provider:     c.Provider,
		Model:        c.Model,
		Purpose:      c.Purpose,
		InputTokens:  c.Usage.InputTokens,
		OutputTokens: c.Usage.OutputTokens,
		LatencyMs:    c.Latency.Milliseconds(),
		Success:      c.Err == nil,
		RequestBody:  reqBody,
		ResponseBody: respBody,
	}
	if c.Err != nil {
		data.ErrorMessage = c.Err.Error()
	}

	// The request outcome stands even when the event cannot be stored.
	if err := r.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); err != nil {
		log.WithError(err).Warn("failed to record llm request event")
	}
}

// LoggingProvider is a decorator that records every text request.
type LoggingProvider struct {
	inner Provider
	recorder
}

// WithLogging wraps a Provider with event logging. repo may be nil, in
// which case events are only logged and observed.
func WithLogging(p Provider, provider string, repo store.EventRepo, observers ...Observer) Provider {
	return &LoggingProvider{
		inner:    p,
		recorder: recorder{provider: provider, eventRepo: repo, observers: observers},
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	c := Call{
		Provider: l.provider,
		Model:    l.inner.ModelID(),
		Purpose:  PurposeFrom(ctx),
		Latency:  time.Since(start),
		Err:      err,
	}
	var respBody string
	if resp != nil {
		c.Usage = resp.Usage
		if resp.Model != "" {
			c.Model = resp.Model
		}
		respBody = string(resp.Content)
	}

	l.record(ctx, c, serializeRequest(req), respBody)
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// LoggingImageProvider is the ImageProvider counterpart of LoggingProvider.
// Image bytes are summarized, never stored.
type LoggingImageProvider struct {
	inner ImageProvider
	recorder
}

// WithImageLogging wraps an ImageProvider with event logging.
func WithImageLogging(p ImageProvider, provider string, repo store.EventRepo, observers ...Observer) ImageProvider {
	return &LoggingImageProvider{
		inner:    p,
		recorder: recorder{provider: provider, eventRepo: repo, observers: observers},
	}
}

func (l *LoggingImageProvider) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	start := time.Now()
	img, err := l.inner.GenerateImage(ctx, req)

	c := Call{
		Provider: l.provider,
		Model:    l.inner.ModelID(),
		Purpose:  PurposeFrom(ctx),
		Latency:  time.Since(start),
		Err:      err,
	}
	var respBody string
	if img != nil {
		c.Usage = img.Usage
		if img.Model != "" {
			c.Model = img.Model
		}
		respBody = fmt.Sprintf("[image %s, %d bytes]", img.MIMEType, len(img.Data))
	}

	reqBody := "[prompt]\n" + req.Prompt + "\n"
	if req.AspectRatio != "" {
		reqBody += "\n[aspect ratio] " + req.AspectRatio + "\n"
	}

	l.record(ctx, c, reqBody, respBody)
	return img, err
}

func (l *LoggingImageProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of a text request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}

	return b.String()
}
