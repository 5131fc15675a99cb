package envelope

import "encoding/json"

const (
	// DefaultPageSize используется, когда размер страницы не задан.
	DefaultPageSize = 10
	// MaxPageSize — верхняя граница размера страницы.
	MaxPageSize = 100
)

// Page — страница результатов. Хранятся только Content, PageNumber, PageSize и
// TotalElements; производные значения вычисляются при каждом обращении.
type Page[T any] struct {
	Content       []T
	PageNumber    int
	PageSize      int
	TotalElements int64
}

// NewPage собирает страницу. Отрицательные значения приводятся к нулю,
// нулевой размер страницы означает "пагинация не настроена" и не является ошибкой.
func NewPage[T any](content []T, pageNumber, pageSize int, totalElements int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		PageNumber:    max(pageNumber, 0),
		PageSize:      max(pageSize, 0),
		TotalElements: max(totalElements, 0),
	}
}

// EmptyPage возвращает пустую страницу без пагинации.
func EmptyPage[T any]() Page[T] {
	return NewPage[T](nil, 0, 0, 0)
}

// TotalPages = ceil(TotalElements / PageSize), 0 при PageSize <= 0.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.TotalElements <= 0 {
		return 0
	}
	size := int64(p.PageSize)
	return int((p.TotalElements + size - 1) / size)
}

// First сообщает, что это первая страница.
func (p Page[T]) First() bool {
	return p.PageNumber == 0
}

// Last сообщает, что это последняя страница.
func (p Page[T]) Last() bool {
	return p.PageNumber >= p.TotalPages()-1
}

// Empty сообщает, что на странице нет элементов.
func (p Page[T]) Empty() bool {
	return len(p.Content) == 0
}

func (p Page[T]) HasNext() bool     { return !p.Last() }
func (p Page[T]) HasPrevious() bool { return !p.First() }

// NextPage возвращает номер следующей страницы или -1.
func (p Page[T]) NextPage() int {
	if p.HasNext() {
		return p.PageNumber + 1
	}
	return -1
}

// PreviousPage возвращает номер предыдущей страницы или -1.
func (p Page[T]) PreviousPage() int {
	if p.HasPrevious() {
		return p.PageNumber - 1
	}
	return -1
}

type pageWire[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

// MarshalJSON пишет хранимые и производные поля.
func (p Page[T]) MarshalJSON() ([]byte, error) {
	content := p.Content
	if content == nil {
		content = []T{}
	}
	return json.Marshal(pageWire[T]{
		Content:       content,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
		First:         p.First(),
		Last:          p.Last(),
		Empty:         p.Empty(),
	})
}

// UnmarshalJSON читает только хранимые поля, производные пересчитываются.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var wire pageWire[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = NewPage(wire.Content, wire.PageNumber, wire.PageSize, wire.TotalElements)
	return nil
}

// PageRequest — параметры запроса страницы.
type PageRequest struct {
	Page int
	Size int
}

// Normalize подставляет значения по умолчанию и ограничивает размер страницы.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 0 {
		r.Page = 0
	}
	switch {
	case r.Size <= 0:
		r.Size = DefaultPageSize
	case r.Size > MaxPageSize:
		r.Size = MaxPageSize
	}
	return r
}

// Offset — смещение первой записи страницы.
func (r PageRequest) Offset() int {
	n := r.Normalize()
	return n.Page * n.Size
}
