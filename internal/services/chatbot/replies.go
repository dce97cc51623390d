// File: internal/services/chatbot/replies.go
package chatbot

import "regexp"

// Replies is the built-in rule table, evaluated top to bottom.
func Replies() []Rule {
	return []Rule{
		{Pattern: regexp.MustCompile(`(?i)^hello|hi|hey$`), Replies: []string{"Hi there!", "Hello! How’s it going?", "Hey! Nice to chat!"}},
		{Pattern: regexp.MustCompile(`(?i)^good (morning|afternoon|evening)$`), Reply: "Good $1! How can I assist you today?"},
		{Pattern: regexp.MustCompile(`(?i)how are you`), Reply: "I’m great, thanks! How are you?"},
		{Pattern: regexp.MustCompile(`(?i)what('s)? up`), Reply: "Not much, just here to chat! What’s on your mind?"},
		{Pattern: regexp.MustCompile(`(?i)who are you`), Reply: "I’m ECHO AI, your friendly assistant! Here to help and chat."},
		{Pattern: regexp.MustCompile(`(?i)what can you do`), Reply: "I can chat, answer simple questions, or tell you a joke! Try me!"},
		{Pattern: regexp.MustCompile(`(?i)tell me a joke`), Reply: "Why don’t skeletons fight each other? They don’t have the guts!"},
		{Pattern: regexp.MustCompile(`(?i)bye|goodbye$`), Reply: "See you later! Have a great day!"},
		{Pattern: regexp.MustCompile(`(?i)thanks|thank you`), Reply: "You’re welcome! Anything else I can do?"},
		{Pattern: regexp.MustCompile(`(?i)weather`), Reply: "I can’t check the weather, but I can talk about it! What’s it like where you are?"},
		{Pattern: regexp.MustCompile(`(?i)what time is it`), Reply: "I don’t have a clock, but what time is it for you?"},
		{Pattern: regexp.MustCompile(`(?i)how('s)? it going`), Reply: "Going great here! You?"},
		{Pattern: regexp.MustCompile(`(?i)what are you doing`), Reply: "Chatting with cool people like you!"},
		{Pattern: regexp.MustCompile(`(?i)tell me something`), Reply: "Did you know octopuses have three hearts?"},
		{Pattern: regexp.MustCompile(`(?i)do you like music`), Reply: "I’d jam if I could!"},
		{Pattern: regexp.MustCompile(`(?i)favorite color`), Reply: "I like all colors equally!"},
		{Pattern: regexp.MustCompile(`(?i)are you smart`), Reply: "Smart enough to chat with you!"},
		{Pattern: regexp.MustCompile(`(?i)tell me a story`), Reply: "Once upon a time, there was a curious user..."},
		{Pattern: regexp.MustCompile(`(?i)yes`), Reply: "Great! What’s next?"},
		{Pattern: regexp.MustCompile(`(?i)no`), Reply: "Okay, anything else?"},
		{Pattern: regexp.MustCompile(`(?i)maybe`), Reply: "Hmm, let’s figure it out!"},
		{Pattern: regexp.MustCompile(`(?i)okay|ok`), Reply: "Cool, what’s on your mind?"},
		{Pattern: regexp.MustCompile(`(?i)nice`), Reply: "Glad you think so!"},
		{Pattern: regexp.MustCompile(`(?i)wow`), Reply: "I know, right?"},
		{Pattern: regexp.MustCompile(`(?i)haha|lol`), Reply: "What’s so funny?"},
		{Pattern: regexp.MustCompile(`(?i)cool`), Reply: "Totally cool!"},
		{Pattern: regexp.MustCompile(`(?i)sorry`), Reply: "No worries at all!"},
		{Pattern: regexp.MustCompile(`(?i)please`), Reply: "Of course, what do you need?"},
		{Pattern: regexp.MustCompile(`(?i)what('s)? that`), Reply: "What do you mean?"},
		{Pattern: regexp.MustCompile(`(?i)tell me more`), Reply: "Sure, what about?"},
		{Pattern: regexp.MustCompile(`(?i)i don('t)? know`), Reply: "That’s okay, let’s chat anyway!"},
		{Pattern: regexp.MustCompile(`(?i)great`), Reply: "Awesome!"},
		{Pattern: regexp.MustCompile(`(?i)bad`), Reply: "Oh no, what happened?"},
		{Pattern: regexp.MustCompile(`(?i)happy`), Reply: "Glad to hear that!"},
		{Pattern: regexp.MustCompile(`(?i)sad`), Reply: "I’m here for you!"},
		{Pattern: regexp.MustCompile(`(?i)love you`), Reply: "Aw, thanks! I’m flattered!"},
		{Pattern: regexp.MustCompile(`(?i)hate you`), Reply: "Sorry you feel that way! How can I help?"},
		{Pattern: regexp.MustCompile(`(?i)you('re)? awesome`), Reply: "Thanks, you’re pretty great too!"},
		{Pattern: regexp.MustCompile(`(?i)good night`), Reply: "Good night! Sweet dreams!"},
		{Pattern: regexp.MustCompile(`(?i)how old are you`), Reply: "I’m timeless!"},
		{Pattern: regexp.MustCompile(`(?i)where are you`), Reply: "Right here in the cloud!"},
		{Pattern: regexp.MustCompile(`(?i)what('s)? your name`), Reply: "I’m ECHO AI!"},
		{Pattern: regexp.MustCompile(`(?i)are you real`), Reply: "I’m as real as code gets!"},
		{Pattern: regexp.MustCompile(`(?i)say something funny`), Reply: "I told my friend he’s average. He said, ‘That’s mean!’"},
		{Pattern: regexp.MustCompile(`(?i)inspire me`), Reply: "You’ve got this! Keep going!"},
		{Pattern: regexp.MustCompile(`(?i)yes please`), Reply: "Alright, what do you want?"},
		{Pattern: regexp.MustCompile(`(?i)no thanks`), Reply: "No problem, let me know if you change your mind!"},
		{Pattern: regexp.MustCompile(`(?i)what('s)? good`), Reply: "Everything’s good here! You?"},
		{Pattern: regexp.MustCompile(`(?i)i('m)? bored`), Reply: "Let’s spice things up—tell me a joke or ask me something!"},
		{Pattern: regexp.MustCompile(`(?i)see ya`), Reply: "Catch you later!"},
	}
}
