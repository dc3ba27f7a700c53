// The companion joke bot: registers against the server password, joins one
// channel, and answers channel chatter with a programming joke. "!exit" or
// "!quit" in the channel shuts it down.
package main

import (
	"flag"
	"log"
	"math/rand"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/lrstanley/girc"
)

var jokes = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs!",
	"There are only 10 kinds of people in this world: those who understand binary and those who don't.",
	"A SQL statement walks into a bar and sees two tables. It approaches and asks, 'Can I join you?'",
	"Why did the programmer quit his job? Because he didn't get arrays.",
	"How many programmers does it take to change a light bulb? None, that's a hardware problem.",
	"Why do Java developers wear glasses? Because they can't C#!",
	"I would tell you a UDP joke, but you might not get it.",
	"Debugging: Being the detective in a crime movie where you're also the murderer.",
	"My code doesn't work, I have no idea why. My code works, I have no idea why.",
	"Segmentation fault (core dumped). Not my problem anymore.",
}

func main() {
	server := flag.String("server", "127.0.0.1", "IRC server host")
	port := flag.Int("port", 6667, "IRC server port")
	nick := flag.String("nick", "jokebot", "bot nickname")
	channel := flag.String("channel", "#jokes", "channel to join")
	password := flag.String("password", "", "server connection password")
	flag.Parse()

	client := girc.New(girc.Config{
		Server:     *server,
		Port:       *port,
		Nick:       *nick,
		User:       *nick,
		Name:       *nick,
		ServerPass: *password,
	})

	client.Handlers.Add(girc.CONNECTED, func(c *girc.Client, e girc.Event) {
		log.Printf("Registered, joining %s", *channel)
		c.Cmd.Join(*channel)
	})

	client.Handlers.Add(girc.PRIVMSG, func(c *girc.Client, e girc.Event) {
		if len(e.Params) == 0 || e.Params[0] != *channel {
			return
		}
		message := e.Last()
		if strings.Contains(message, "!exit") || strings.Contains(message, "!quit") {
			log.Println("Exit command received. Shutting down bot...")
			c.Close()
			return
		}
		c.Cmd.Message(*channel, jokes[rand.Intn(len(jokes))])
	})

	log.Printf("Connecting to %s:%d", *server, *port)
	if err := client.Connect(); err != nil {
		log.Fatalf("Error connecting to IRC: %v", err)
	}
}
