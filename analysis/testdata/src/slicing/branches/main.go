package main

var calls int

func classify(x int) string { // @Slice(label)
	calls++ // @Outside(label)
	var kind string
	if x > 100 { // @Slice(label)
		kind = "large" // @Slice(label)
	} else {
		kind = "small" // @Slice(label)
	}
	noise := x * 2      // @Outside(label)
	label := kind + "!" // @Criterion(label)
	println(noise)
	return label
}

func main() {
	println(classify(3), calls)
}
