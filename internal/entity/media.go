package entity

import "fmt"

type Kind string

const (
	KindVideos        Kind = "videos"
	KindPresentations Kind = "presentations"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindVideos, KindPresentations:
		return Kind(s), nil
	}

	return "", fmt.Errorf("unknown media kind: %q", s)
}

func (k Kind) String() string {
	return string(k)
}

// MediaRecord представляет один файл видео или презентации. Существует только
// в рамках одного вызова List/Resolve и нигде не хранится.
type MediaRecord struct {
	Filename string `json:"filename"`       // Точное имя файла на диске
	Title    string `json:"title"`          // Заголовок, полученный из имени файла
	Slug     string `json:"slug"`           // Стабильный идентификатор для URL
	Href     string `json:"href,omitempty"` // Ссылка для клиента
	Path     string `json:"-"`              // Полный путь к файлу
	Kind     Kind   `json:"-"`
}

// ByteRange is an inclusive byte interval [Start, End] of a file.
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}
