package staticlist

type Node[T any] struct {
	Data T
	Next int
}

type StaticList[T any] struct {
	datas []Node[T]
	free  int
	zero  T // 零值
}

const Null = -1

func NewStaticList[T any](size int) *StaticList[T] {
	list := &StaticList[T]{
		datas: make([]Node[T], size),
	}
	list.Reset()
	return list
}

func (list *StaticList[T]) Malloc() int {
	p := list.free
	if p != Null {
		slot := &list.datas[p]
		list.free = slot.Next
		slot.Next = Null
	}
	return p
}

func (list *StaticList[T]) Free(p int) {
	node := &list.datas[p]
	node.Data = list.zero
	node.Next = list.free
	list.free = p
}

func (list *StaticList[T]) GetNode(p int) *Node[T] {
	return &list.datas[p]
}

func (list *StaticList[T]) Reset() {
	size := len(list.datas)
	for i := 0; i < size-1; i++ {
		list.datas[i].Data = list.zero
		list.datas[i].Next = i + 1
	}
	list.datas[size-1].Next = Null
	list.free = 0
}

func (list *StaticList[T]) GetDataPointer(p int) *T {
	return &list.datas[p].Data
}
