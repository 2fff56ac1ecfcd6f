package main

import (
    "flag"
    "log"
    "os"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/cli"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

func main() {
    modeFlag := flag.String("mode", "pve", "pvp or pve")
    aiFlag := flag.String("ai", "O", "mark played by the computer in pve (X or O)")
    noColor := flag.Bool("no-color", false, "disable colours")
    flag.Parse()

    mode, err := app.ParseMode(*modeFlag)
    if err != nil {
        log.Fatalf("[tictactoe] %v", err)
    }
    side, ok := domain.ParseCell(*aiFlag)
    if !ok {
        log.Fatalf("[tictactoe] -ai must be X or O, got %q", *aiFlag)
    }
    s := cli.New(os.Stdin, os.Stdout, cli.Options{Mode: mode, Computer: side, Color: !*noColor})
    if err := s.Run(); err != nil {
        log.Fatalf("[tictactoe] %v", err)
    }
}
