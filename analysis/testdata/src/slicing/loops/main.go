package main

import "fmt"

func sum(n int) int { // @Slice(total)
	s := 0 // @Slice(total)
	p := 1 // @Outside(total)
	for i := 0; i < n; i++ { // @Slice(total)
		s += i // @Slice(total)
		p *= 2 // @Outside(total)
	}
	fmt.Println(p) // @Outside(total)
	total := s     // @Criterion(total)
	return total
}

func main() {
	fmt.Println(sum(10))
}
