package main

import (
	"os"
	_ "time/tzdata"

	"github.com/yungbote/landcontract-backend/cmd/contractctl/commands"
)

func main() {
	os.Exit(commands.Execute())
}
