package main

import (
	"fmt"

	"github.com/rankline/live-poll-service/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Println(err.Error())
		return
	}
}
