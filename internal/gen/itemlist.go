package gen

// ItemList is a component holding generated items together with the name of
// the step that produced each one, so later steps can attribute or migrate
// data. Rooms, tunnels and areas all travel through contexts as item lists.
type ItemList[T any] struct {
	items   []T
	sources []string
}

// NewItemList returns an empty list. The zero value is also usable, but
// components are conventionally created through FirstOrNew with this as the
// factory.
func NewItemList[T any]() *ItemList[T] {
	return &ItemList[T]{}
}

// Add appends item, attributed to the named source step.
func (l *ItemList[T]) Add(item T, source string) {
	l.items = append(l.items, item)
	l.sources = append(l.sources, source)
}

// AddRange appends items in order, all attributed to source.
func (l *ItemList[T]) AddRange(items []T, source string) {
	for _, item := range items {
		l.Add(item, source)
	}
}

// Items returns the underlying item slice in insertion order. Callers may
// mutate the items in place but must not append to the returned slice.
func (l *ItemList[T]) Items() []T {
	return l.items
}

// SourceOf returns the name of the step that added item i.
func (l *ItemList[T]) SourceOf(i int) string {
	return l.sources[i]
}

// Len reports the number of items.
func (l *ItemList[T]) Len() int {
	return len(l.items)
}
