package sivec_test

import (
	"errors"
	"fmt"

	"github.com/coregx/sivec"
)

// ExampleWithValue demonstrates lazy slots with a default value.
func ExampleWithValue() {
	v, err := sivec.WithValue(10, 0)
	if err != nil {
		panic(err)
	}

	x, _ := v.Get(3)
	fmt.Println(x, v.Len())

	_ = v.Set(3, 5)
	x, _ = v.Get(3)
	fmt.Println(x, v.Len(), v.IsInitialized(7))
	// Output:
	// 0 1
	// 5 1 false
}

// ExampleWithFunc demonstrates an index-dependent initializer.
func ExampleWithFunc() {
	v := sivec.Must(sivec.WithFunc(26, func(i int) rune { return 'a' + rune(i) }))
	c, _ := v.Get(2)
	fmt.Println(string(c))
	// Output: c
}

// ExampleNew demonstrates a vector without an initializer.
func ExampleNew() {
	v := sivec.Must(sivec.New[string](12))
	_ = v.Set(3, "a")

	s, _ := v.Get(3)
	fmt.Println(s)

	_, err := v.Get(4)
	fmt.Println(errors.Is(err, sivec.ErrUninitialized))
	// Output:
	// a
	// true
}

// ExampleVec_All demonstrates iteration in first-access order.
func ExampleVec_All() {
	v := sivec.Must(sivec.WithValue(100, 1))
	for _, i := range []int{42, 7, 99} {
		p, _ := v.GetOrInit(i)
		*p += i
	}

	for i, x := range v.All() {
		fmt.Println(i, *x)
	}
	// Output:
	// 42 43
	// 7 8
	// 99 100
}

// ExampleVec_Clear demonstrates constant-time reset.
func ExampleVec_Clear() {
	v := sivec.Must(sivec.WithValue(1_000_000, false))
	for i := 0; i < 1000; i++ {
		_ = v.Set(i*1000, true)
	}
	fmt.Println(v.Len())

	v.Clear()
	fmt.Println(v.Len(), v.IsInitialized(0))
	// Output:
	// 1000
	// 0 false
}

// ExampleNewWithConfig demonstrates choosing the index backing.
func ExampleNewWithConfig() {
	config := sivec.DefaultConfig(1 << 10)
	config.Backing = sivec.BackingHeap

	v, err := sivec.NewWithConfig[int](config, nil)
	if err != nil {
		panic(err)
	}
	defer v.Close()

	_, err = v.GetOrInit(1 << 10)
	fmt.Println(errors.Is(err, sivec.ErrIndexOutOfBounds))
	fmt.Println(v.Backing())
	// Output:
	// true
	// Heap
}
