package i18n

import "testing"

func TestT_Placeholders(t *testing.T) {
	tr := New("en")
	got := tr.T(NewVersionCreated, "V1.1", "Prompt-1")
	if got != "New version V1.1 created in file Prompt-1" {
		t.Errorf("got %q", got)
	}
}

func TestT_ChineseLocale(t *testing.T) {
	tr := New("zh_CN.UTF-8")
	if tr.Locale() != LocaleZH {
		t.Fatalf("locale = %q", tr.Locale())
	}
	if got := tr.T(Empty); got != "空空如也" {
		t.Errorf("got %q", got)
	}
}

func TestT_FallbackToKey(t *testing.T) {
	tr := New("fr")
	if tr.Locale() != LocaleEN {
		t.Errorf("locale = %q", tr.Locale())
	}
	if got := tr.T("no-such-key"); got != "no-such-key" {
		t.Errorf("got %q", got)
	}
}

func TestDetect(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "zh_TW.UTF-8")
	if got := Detect(); got != LocaleZH {
		t.Errorf("Detect = %q", got)
	}
	t.Setenv("LANG", "")
	if got := Detect(); got != LocaleEN {
		t.Errorf("Detect = %q", got)
	}
}

func TestEveryKeyTranslated(t *testing.T) {
	for key := range messages[LocaleEN] {
		if _, ok := messages[LocaleZH][key]; !ok {
			t.Errorf("missing zh translation for %q", key)
		}
	}
}
