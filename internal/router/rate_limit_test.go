package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"email":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "uint8", input: uint8(12), want: 12, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}

func TestLimitVerdict(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 5, BlockSeconds: 300}

	if limited, _ := limitVerdict(3, 40, rule); limited {
		t.Fatalf("count below limit should pass")
	}
	if limited, _ := limitVerdict(5, 40, rule); limited {
		t.Fatalf("count at limit should pass")
	}

	limited, wait := limitVerdict(6, 40, rule)
	if !limited || wait != 40 {
		t.Fatalf("over limit want limited with wait 40, got %v %d", limited, wait)
	}

	// 封禁期内的哨兵值：-1 + 封禁剩余 TTL
	limited, wait = limitVerdict(-1, 120, rule)
	if !limited || wait != 120 {
		t.Fatalf("blocked want limited with wait 120, got %v %d", limited, wait)
	}

	// TTL 缺失时回退到规则配置
	if _, wait = limitVerdict(-1, 0, rule); wait != rule.BlockSeconds {
		t.Fatalf("blocked fallback want %d got %d", rule.BlockSeconds, wait)
	}
	if _, wait = limitVerdict(9, 0, rule); wait != rule.WindowSeconds {
		t.Fatalf("window fallback want %d got %d", rule.WindowSeconds, wait)
	}
}
