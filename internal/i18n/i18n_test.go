package i18n

import "testing"

func TestNormalizeLocale(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "", want: LocaleZH},
		{in: "zh", want: LocaleZH},
		{in: "zh-CN", want: LocaleZH},
		{in: "zh-TW", want: LocaleTW},
		{in: "zh-Hant-TW", want: LocaleTW},
		{in: "en", want: LocaleEN},
		{in: "en-GB", want: LocaleEN},
		{in: "fr-FR", want: LocaleZH},
	}
	for _, item := range cases {
		if got := NormalizeLocale(item.in); got != item.want {
			t.Fatalf("normalize %q want %s got %s", item.in, item.want, got)
		}
	}
}

func TestTFallback(t *testing.T) {
	if got := T(LocaleEN, "error.code_not_found"); got != "Coupon code not found" {
		t.Fatalf("en lookup unexpected: %s", got)
	}
	// 缺失 key 原样返回
	if got := T(LocaleEN, "error.__missing__"); got != "error.__missing__" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	for key := range zhCN {
		if _, ok := zhTW[key]; !ok {
			t.Fatalf("zh-TW missing key %s", key)
		}
		if _, ok := enUS[key]; !ok {
			t.Fatalf("en-US missing key %s", key)
		}
	}
	for key := range enUS {
		if _, ok := zhCN[key]; !ok {
			t.Fatalf("zh-CN missing key %s", key)
		}
	}
}
