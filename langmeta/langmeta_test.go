package langmeta

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"zh":     "zh",
		"zh_CN":  "zh",
		"zh-TW":  "zh",
		"PT-br":  "pt",
		" en ":   "en",
		"":       "",
		"de-AT":  "de",
		"fr_FR1": "fr",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveFallsBackToBase(t *testing.T) {
	if got := Resolve("ru_RU"); got.Name != "Russian" || got.Native != "Русский" {
		t.Fatalf("Resolve(ru_RU) = %#v", got)
	}
	if got := Resolve("xx"); got.Code != "xx" || got.Name != "xx" || got.Flag != "" {
		t.Fatalf("Resolve(xx) = %#v", got)
	}
}

func TestSupported(t *testing.T) {
	if !IsSupported("ar") || !IsSupported("ja-JP") {
		t.Fatal("expected ar and ja-JP to be supported")
	}
	if IsSupported("it") {
		t.Fatal("it should not be supported")
	}

	codes := Codes()
	if len(codes) != 9 || codes[0] != "en" || codes[8] != "ar" {
		t.Fatalf("Codes() = %v", codes)
	}

	list := Supported()
	list[0].Name = "changed"
	if Registry[0].Name != "English" {
		t.Fatal("Supported() must return a copy")
	}
}
