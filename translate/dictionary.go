package translate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is a source phrase with its translations keyed by language code.
type Entry struct {
	Phrase       string
	Translations map[string]string
}

// Dictionary is an ordered phrase table used as the last translation
// strategy. It is safe for concurrent reads once built.
type Dictionary struct {
	entries []Entry
	index   map[string]int
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// Add stores a translation of phrase into lang. Existing phrases keep
// their position in the table.
func (d *Dictionary) Add(phrase, lang, translation string) {
	i, ok := d.index[phrase]
	if !ok {
		i = len(d.entries)
		d.index[phrase] = i
		d.entries = append(d.entries, Entry{Phrase: phrase, Translations: make(map[string]string)})
	}
	d.entries[i].Translations[lang] = translation
}

// Merge copies every entry of other into d; other wins on conflicts.
func (d *Dictionary) Merge(other *Dictionary) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		for lang, tr := range e.Translations {
			d.Add(e.Phrase, lang, tr)
		}
	}
}

// Len returns the number of phrases.
func (d *Dictionary) Len() int { return len(d.entries) }

// Entries returns the phrases in table order.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Lookup translates text into target. An exact phrase match wins;
// otherwise the first phrase in table order that occurs inside text has its
// first occurrence replaced, leaving surrounding text untouched.
func (d *Dictionary) Lookup(text, target string) (string, bool) {
	if i, ok := d.index[text]; ok {
		if tr := d.entries[i].Translations[target]; tr != "" {
			return tr, true
		}
	}
	for _, e := range d.entries {
		tr := e.Translations[target]
		if tr == "" || e.Phrase == "" {
			continue
		}
		if strings.Contains(text, e.Phrase) {
			return strings.Replace(text, e.Phrase, tr, 1), true
		}
	}
	return "", false
}

// ID implements Strategy.
func (d *Dictionary) ID() string { return StrategyDictionary }

// Name implements Strategy.
func (d *Dictionary) Name() string { return "Local dictionary" }

// Translate implements Strategy.
func (d *Dictionary) Translate(_ context.Context, text, _, target string) Result {
	tr, ok := d.Lookup(text, target)
	if !ok {
		return Failed("no dictionary entry for %q in %s", truncate(text, 40), target)
	}
	return Succeeded(tr)
}

// ---------------------------------------------------------------------------
// User dictionary files
// ---------------------------------------------------------------------------

// LoadDictionaryFile reads a YAML phrase table of the form
//
//	你好:
//	  en: Hello
//	  it: Ciao
//
// Phrase order in the file is kept.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := ParseDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}

// ParseDictionary parses YAML phrase table data.
func ParseDictionary(data []byte) (*Dictionary, error) {
	d := NewDictionary()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return d, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of phrases", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if val.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: phrase %q must map language codes to translations", val.Line, key.Value)
		}
		for j := 0; j+1 < len(val.Content); j += 2 {
			lang, tr := val.Content[j], val.Content[j+1]
			if tr.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: translation of %q into %s must be a string", tr.Line, key.Value, lang.Value)
			}
			d.Add(key.Value, lang.Value, tr.Value)
		}
	}
	return d, nil
}

// ---------------------------------------------------------------------------
// Built-in phrases
// ---------------------------------------------------------------------------

var builtinPhrases = []struct {
	phrase string
	tr     map[string]string
}{
	{"你好", map[string]string{"en": "Hello", "ja": "こんにちは", "ko": "안녕하세요", "fr": "Bonjour", "de": "Hallo", "es": "Hola", "ru": "Привет", "ar": "مرحبا"}},
	{"谢谢", map[string]string{"en": "Thank you", "ja": "ありがとう", "ko": "감사합니다", "fr": "Merci", "de": "Danke", "es": "Gracias", "ru": "Спасибо", "ar": "شكرا"}},
	{"再见", map[string]string{"en": "Goodbye", "ja": "さようなら", "ko": "안녕히 계세요", "fr": "Au revoir", "de": "Auf Wiedersehen", "es": "Adiós", "ru": "До свидания", "ar": "وداعا"}},
	{"欢迎", map[string]string{"en": "Welcome", "ja": "ようこそ", "ko": "환영합니다", "fr": "Bienvenue", "de": "Willkommen", "es": "Bienvenido", "ru": "Добро пожаловать", "ar": "أهلا بكم"}},
	{"用户", map[string]string{"en": "User", "ja": "ユーザー", "ko": "사용자", "fr": "Utilisateur", "de": "Benutzer", "es": "Usuario", "ru": "Пользователь", "ar": "المستخدم"}},
	{"名称", map[string]string{"en": "Name", "ja": "名前", "ko": "이름", "fr": "Nom", "de": "Name", "es": "Nombre", "ru": "Имя", "ar": "الاسم"}},
	{"设置", map[string]string{"en": "Settings", "ja": "設定", "ko": "설정", "fr": "Paramètres", "de": "Einstellungen", "es": "Configuración", "ru": "Настройки", "ar": "الإعدادات"}},
	{"帮助", map[string]string{"en": "Help", "ja": "ヘルプ", "ko": "도움", "fr": "Aide", "de": "Hilfe", "es": "Ayuda", "ru": "Помощь", "ar": "المساعدة"}},
	{"关于", map[string]string{"en": "About", "ja": "について", "ko": "정보", "fr": "À propos", "de": "Über", "es": "Acerca de", "ru": "О программе", "ar": "حول"}},
	{"主页", map[string]string{"en": "Home", "ja": "ホーム", "ko": "홈", "fr": "Accueil", "de": "Startseite", "es": "Inicio", "ru": "Главная", "ar": "الرئيسية"}},
	{"搜索", map[string]string{"en": "Search", "ja": "検索", "ko": "검색", "fr": "Rechercher", "de": "Suche", "es": "Buscar", "ru": "Поиск", "ar": "بحث"}},
	{"登录", map[string]string{"en": "Login", "ja": "ログイン", "ko": "로그인", "fr": "Connexion", "de": "Anmelden", "es": "Iniciar sesión", "ru": "Вход", "ar": "تسجيل الدخول"}},
	{"注册", map[string]string{"en": "Register", "ja": "登録", "ko": "가입", "fr": "S'inscrire", "de": "Registrieren", "es": "Registrarse", "ru": "Регистрация", "ar": "التسجيل"}},
	{"确认", map[string]string{"en": "Confirm", "ja": "確認", "ko": "확인", "fr": "Confirmer", "de": "Bestätigen", "es": "Confirmar", "ru": "Подтвердить", "ar": "تأكيد"}},
	{"取消", map[string]string{"en": "Cancel", "ja": "キャンセル", "ko": "취소", "fr": "Annuler", "de": "Abbrechen", "es": "Cancelar", "ru": "Отмена", "ar": "إلغاء"}},
	{"保存", map[string]string{"en": "Save", "ja": "保存", "ko": "저장", "fr": "Enregistrer", "de": "Speichern", "es": "Guardar", "ru": "Сохранить", "ar": "حفظ"}},
	{"删除", map[string]string{"en": "Delete", "ja": "削除", "ko": "삭제", "fr": "Supprimer", "de": "Löschen", "es": "Eliminar", "ru": "Удалить", "ar": "حذف"}},
	{"编辑", map[string]string{"en": "Edit", "ja": "編集", "ko": "편집", "fr": "Modifier", "de": "Bearbeiten", "es": "Editar", "ru": "Редактировать", "ar": "تحرير"}},
}

// BuiltinDictionary returns a fresh copy of the built-in phrase table.
func BuiltinDictionary() *Dictionary {
	d := NewDictionary()
	for _, p := range builtinPhrases {
		for lang, tr := range p.tr {
			d.Add(p.phrase, lang, tr)
		}
	}
	return d
}
