package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultDeepLURL       = "https://api.deepl.com/v2/translate"
	DefaultDeepLCharLimit = 30000
)

var deeplLanguages = []string{
	"bg", "cs", "da", "de", "el", "en", "en-gb", "en-us", "es", "et", "fi",
	"fr", "hu", "id", "it", "ja", "ko", "lt", "lv", "nb", "nl", "pl", "pt",
	"pt-br", "pt-pt", "ro", "ru", "sk", "sl", "sv", "tr", "uk", "zh",
}

// DeepL translates with the DeepL v2 API. HTML is sent with tag handling
// enabled, which keeps attributes such as chunk positions intact.
type DeepL struct {
	url       string
	authKey   string
	charLimit int
	client    *http.Client
}

func NewDeepL(endpoint, authKey string, charLimit int, client *http.Client) *DeepL {
	if endpoint == "" {
		endpoint = DefaultDeepLURL
	}
	if charLimit <= 0 {
		charLimit = DefaultDeepLCharLimit
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &DeepL{url: endpoint, authKey: authKey, charLimit: charLimit, client: client}
}

func (d *DeepL) Name() string   { return "deepl" }
func (d *DeepL) CharLimit() int { return d.charLimit }

func (d *DeepL) Languages() []string {
	return append([]string(nil), deeplLanguages...)
}

func (d *DeepL) Supports(lang string, strict bool) (string, bool) {
	return matchLanguage(deeplLanguages, lang, strict)
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func (d *DeepL) Translate(ctx context.Context, p Params) (string, error) {
	form := url.Values{}
	form.Set("text", p.Content)
	form.Set("target_lang", strings.ToUpper(p.Target))
	if p.Source != "" {
		// Source languages are given without region.
		base, _, _ := strings.Cut(p.Source, "-")
		form.Set("source_lang", strings.ToUpper(base))
	}
	if p.IsHTML {
		form.Set("tag_handling", "html")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build deepl request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.authKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("deepl: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode deepl response: %w", err)
	}
	if len(out.Translations) == 0 {
		return "", fmt.Errorf("deepl: empty response")
	}
	return out.Translations[0].Text, nil
}
