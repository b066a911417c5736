package main

import (
	"os"

	"gitlab.com/dirk.krummacker/mycontacts/internal/cli"
)

// Usage example on the command line:
// > go run main.go register alice
// > go run main.go add --name "Marcus Antonius" --email marcus@antonius.it --phone "+39 999 777 555"
// > go run main.go list --search marcus
// > MYCONTACTS_URL=http://localhost:10000 go run main.go bench --sizes 1000,5000
func main() {
	os.Exit(cli.Execute())
}
