package main

import "github.com/yudapramata/rab-management/cmd"

func main() {
	cmd.Execute()
}
