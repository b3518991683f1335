package testutil

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

const serializationNS = "http://schemas.microsoft.com/2003/10/Serialization/"

// APIRequest records a call made to the Detect or Translate endpoint
type APIRequest struct {
	Path          string
	Query         url.Values
	Authorization string
	TraceID       string
}

// VendorServer stubs the OAuth and translator endpoints
type VendorServer struct {
	*httptest.Server

	// AccessToken is handed out by the token endpoint. When NextToken is set
	// it is called instead, once per token request.
	AccessToken string
	NextToken   func(n int) string

	// TokenStatus overrides the token endpoint status code when non-zero
	TokenStatus int
	// TokenBody overrides the token endpoint response body when non-empty
	TokenBody string

	// Translations maps source text to translated text
	Translations map[string]string
	// Detections maps source text to a language code
	Detections map[string]string
	// Languages is returned by GetLanguagesForTranslate
	Languages []string

	// APIStatus overrides the translator endpoints status code when non-zero
	APIStatus int
	// APIBody overrides the translator endpoints response body when non-empty
	APIBody string

	mu            sync.Mutex
	tokenRequests []url.Values
	apiRequests   []APIRequest
}

// NewVendorServer starts a stub server that is closed when the test ends
func NewVendorServer(t *testing.T) *VendorServer {
	t.Helper()

	v := &VendorServer{
		AccessToken:  "tok123",
		Translations: map[string]string{},
		Detections:   map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", v.handleToken)
	mux.HandleFunc("/Detect", v.handleAPI)
	mux.HandleFunc("/Translate", v.handleAPI)
	mux.HandleFunc("/GetLanguagesForTranslate", v.handleAPI)

	v.Server = httptest.NewServer(mux)
	t.Cleanup(v.Server.Close)
	return v
}

// TokenURL returns the stub OAuth endpoint
func (v *VendorServer) TokenURL() string { return v.URL + "/token" }

// DetectURL returns the stub detect endpoint
func (v *VendorServer) DetectURL() string { return v.URL + "/Detect" }

// TranslateURL returns the stub translate endpoint
func (v *VendorServer) TranslateURL() string { return v.URL + "/Translate" }

// LanguagesURL returns the stub language list endpoint
func (v *VendorServer) LanguagesURL() string { return v.URL + "/GetLanguagesForTranslate" }

// TokenRequests returns the form values of every token request received
func (v *VendorServer) TokenRequests() []url.Values {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]url.Values(nil), v.tokenRequests...)
}

// APIRequests returns every translator request received
func (v *VendorServer) APIRequests() []APIRequest {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]APIRequest(nil), v.apiRequests...)
}

func (v *VendorServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	v.mu.Lock()
	v.tokenRequests = append(v.tokenRequests, r.PostForm)
	n := len(v.tokenRequests)
	v.mu.Unlock()

	if v.TokenBody != "" || v.TokenStatus != 0 {
		w.Header().Set("Content-Type", "text/plain")
		if v.TokenStatus != 0 {
			w.WriteHeader(v.TokenStatus)
		}
		fmt.Fprint(w, v.TokenBody)
		return
	}

	token := v.AccessToken
	if v.NextToken != nil {
		token = v.NextToken(n)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": token,
		"token_type":   "http://schemas.xmlsoap.org/ws/2009/11/swt-token-profile-1.0",
		"expires_in":   600,
		"scope":        r.PostForm.Get("scope"),
	})
}

func (v *VendorServer) handleAPI(w http.ResponseWriter, r *http.Request) {
	v.mu.Lock()
	v.apiRequests = append(v.apiRequests, APIRequest{
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		Authorization: r.Header.Get("Authorization"),
		TraceID:       r.Header.Get("X-ClientTraceId"),
	})
	v.mu.Unlock()

	w.Header().Set("Content-Type", "application/xml")
	if v.APIStatus != 0 {
		w.WriteHeader(v.APIStatus)
	}
	if v.APIBody != "" {
		fmt.Fprint(w, v.APIBody)
		return
	}

	query := r.URL.Query()
	switch r.URL.Path {
	case "/Detect":
		code, ok := v.Detections[query.Get("text")]
		if !ok {
			code = "en"
		}
		writeString(w, code)
	case "/Translate":
		text := query.Get("text")
		translated, ok := v.Translations[text]
		if !ok {
			translated = fmt.Sprintf("[%s] %s", query.Get("to"), text)
		}
		writeString(w, translated)
	case "/GetLanguagesForTranslate":
		var buf bytes.Buffer
		fmt.Fprintf(&buf, `<ArrayOfstring xmlns="http://schemas.microsoft.com/2003/10/Serialization/Arrays">`)
		for _, lang := range v.Languages {
			buf.WriteString("<string>")
			_ = xml.EscapeText(&buf, []byte(lang))
			buf.WriteString("</string>")
		}
		buf.WriteString("</ArrayOfstring>")
		w.Write(buf.Bytes())
	}
}

func writeString(w http.ResponseWriter, value string) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<string xmlns=%q>`, serializationNS)
	_ = xml.EscapeText(&buf, []byte(value))
	buf.WriteString("</string>")
	w.Write(buf.Bytes())
}
