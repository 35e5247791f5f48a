package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/mdouchement/visionboard/pkg/libvb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

// DefaultEndpoint is the Gemini API endpoint.
const DefaultEndpoint = "https://generativelanguage.googleapis.com"

const (
	chatInstruction = "You are a supportive and witty best friend. Keep responses short and encouraging."
	planPrompt      = "Create a concise, actionable study plan regarding: %s. Focus on efficiency. Output in Markdown."
)

type (
	// GeminiOptions configures the Gemini advisor.
	GeminiOptions struct {
		Endpoint   string
		HTTPClient *http.Client
		Logger     logrus.FieldLogger
	}

	// A Gemini is a Service backed by the Gemini REST API.
	Gemini struct {
		apiKey   string
		endpoint string
		http     *http.Client
		logger   logrus.FieldLogger
	}

	part struct {
		Text string `json:"text,omitempty"`
	}

	content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}

	generationConfig struct {
		ThinkingConfig *thinkingConfig `json:"thinkingConfig,omitempty"`
		ImageConfig    *imageConfig    `json:"imageConfig,omitempty"`
	}

	thinkingConfig struct {
		ThinkingBudget int `json:"thinkingBudget"`
	}

	imageConfig struct {
		AspectRatio string `json:"aspectRatio"`
		ImageSize   string `json:"imageSize"`
	}

	request struct {
		Contents          []content         `json:"contents"`
		SystemInstruction *content          `json:"systemInstruction,omitempty"`
		GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	}
)

// NewGemini returns a Service using the given API key.
// An empty key returns the Offline service.
func NewGemini(apiKey string, o GeminiOptions) Service {
	if apiKey == "" {
		return Offline{}
	}
	if o.Endpoint == "" {
		o.Endpoint = DefaultEndpoint
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}

	return &Gemini{
		apiKey:   apiKey,
		endpoint: o.Endpoint,
		http:     o.HTTPClient,
		logger:   o.Logger,
	}
}

// ChatReply implements Service.
func (g *Gemini) ChatReply(ctx context.Context, text string) string {
	res, err := g.generate(ctx, ModelChat, request{
		Contents:          []content{{Role: "user", Parts: []part{{Text: text}}}},
		SystemInstruction: &content{Parts: []part{{Text: chatInstruction}}},
	})
	if err != nil {
		g.logger.WithError(err).Error("Gemini chat error")
		return FallbackChatError
	}

	if reply := joinText(res); reply != "" {
		return reply
	}
	return FallbackChatEmpty
}

// StudyPlan implements Service.
func (g *Gemini) StudyPlan(ctx context.Context, topic string) string {
	res, err := g.generate(ctx, ModelPlanner, request{
		Contents: []content{{Role: "user", Parts: []part{{Text: fmt.Sprintf(planPrompt, topic)}}}},
		GenerationConfig: &generationConfig{
			ThinkingConfig: &thinkingConfig{ThinkingBudget: 2048},
		},
	})
	if err != nil {
		g.logger.WithError(err).Error("Gemini study plan error")
		return FallbackPlanError
	}

	if plan := joinText(res); plan != "" {
		return plan
	}
	return FallbackPlanEmpty
}

// GenerateImage implements Service.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) string {
	res, err := g.generate(ctx, ModelImage, request{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: "1:1", ImageSize: "1K"},
		},
	})
	if err != nil {
		g.logger.WithError(err).Error("Gemini image generation error")
		return ""
	}

	for _, p := range parts(res) {
		inline := p.Get("inlineData")
		if inline == nil {
			continue
		}

		data := string(inline.GetStringBytes("data"))
		mime := string(inline.GetStringBytes("mimeType"))
		if mime == "" {
			mime = "image/png"
		}
		return "data:" + mime + ";base64," + data
	}
	return ""
}

func (g *Gemini) generate(ctx context.Context, model string, r request) (*fastjson.Value, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, "v1beta", "models", model+":generateContent")

	//
	// Build request
	body, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not serialize request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Header.Set("Content-Type", libvb.MIMEApplicationJSON)
	req.Header.Set("x-goog-api-key", g.apiKey)

	//
	// Perform request
	res, err := g.http.Do(req)
	if err != nil {
		return nil, libvb.Unreachable(err, "Generate Content")
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read response")
	}

	if res.StatusCode >= 400 {
		message := ""
		if v, err := fastjson.ParseBytes(payload); err == nil {
			message = string(v.GetStringBytes("error", "message"))
		}
		e := libvb.FromStatus(res.StatusCode, "Generate Content", message)
		e.Kind = libvb.KindGenerationFailure
		return nil, e
	}

	//
	// Process response
	v, err := fastjson.ParseBytes(payload)
	return v, errors.Wrap(err, "could not parse response")
}

func parts(v *fastjson.Value) []*fastjson.Value {
	candidates := v.GetArray("candidates")
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0].GetArray("content", "parts")
}

func joinText(v *fastjson.Value) string {
	var b bytes.Buffer
	for _, p := range parts(v) {
		if p.GetBool("thought") {
			continue
		}
		b.Write(p.GetStringBytes("text"))
	}
	return b.String()
}
