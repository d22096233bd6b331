package extension

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHost(t *testing.T) (*Host, *gin.Engine) {
	t.Helper()
	r := gin.New()
	h, err := NewHost(r)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	return h, r
}

func TestRenderUsesOverriddenSlots(t *testing.T) {
	h, r := newHost(t)
	if err := h.SetTemplate(SlotBase, `<main>{{block "content" .}}{{end}}</main>`); err != nil {
		t.Fatalf("SetTemplate base: %v", err)
	}
	if err := h.SetTemplate(SlotChallenges, `{{define "content"}}hello {{.Name}}{{end}}`); err != nil {
		t.Fatalf("SetTemplate page: %v", err)
	}
	r.GET("/p", func(c *gin.Context) {
		h.Render(c, http.StatusOK, SlotChallenges, gin.H{"Name": "<b>team</b>"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got, want := w.Body.String(), "<main>hello &lt;b&gt;team&lt;/b&gt;</main>"; got != want {
		t.Fatalf("body = %q, want %q", got, want)
	}
}

func TestSetTemplateRejectsBadInput(t *testing.T) {
	h, _ := newHost(t)
	if err := h.SetTemplate("footer.html", "x"); !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("unknown slot err = %v, want ErrUnknownSlot", err)
	}
	before, _ := h.Template(SlotChallenges)
	if err := h.SetTemplate(SlotChallenges, `{{define "content"}}{{.Broken`); err == nil {
		t.Fatalf("expected parse error")
	}
	after, _ := h.Template(SlotChallenges)
	if before != after {
		t.Fatalf("failed override changed the slot to %q", after)
	}
}

func TestChallengeListSlot(t *testing.T) {
	h, r := newHost(t)
	r.GET("/chals", h.ServeChallengeList)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chals", nil))
	if !strings.Contains(w.Body.String(), `"game":[]`) {
		t.Fatalf("default body = %s, want empty game", w.Body.String())
	}

	h.SetChallengeListHandler(func(c *gin.Context) { c.String(http.StatusTeapot, "plugin") })
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chals", nil))
	if w.Code != http.StatusTeapot || w.Body.String() != "plugin" {
		t.Fatalf("overridden = %d %q, want 418 plugin", w.Code, w.Body.String())
	}
}
