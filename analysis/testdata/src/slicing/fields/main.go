package main

type Account struct {
	balance int
	owner   string
}

func (a *Account) Deposit(amount int, note string) { // @Slice(balance)
	fee := 1                             // @Slice(balance)
	label := note + "!"                  // @Outside(balance)
	a.owner = label                      // @Outside(balance)
	a.balance = a.balance + amount - fee // @Criterion(balance)
}

func main() {
	a := &Account{}
	a.Deposit(10, "first")
	println(a.balance)
}
