package discord

import "github.com/bwmarrin/discordgo"

const (
	taskAddModalID = "task_add_modal"
	listAddModalID = "list_add_modal"
)

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Check that the bot is alive",
	},
	{
		Name:        "task",
		Description: "Manage your tasks",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a task",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "What needs doing", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "due_date", Description: "YYYY-MM-DD or YYYY-MM-DD HH:MM"},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "new", Description: "Add a task via a form"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "Show your open tasks"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "done",
				Description: "Mark a task done",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Task id", Required: true},
				},
			},
		},
	},
	{
		Name:        "list",
		Description: "Manage your lists",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add an item",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "item", Description: "Item text", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "List name (default: default)"},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "new", Description: "Add an item via a form"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Show a list",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "List name (default: default)"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove an item",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Item id", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "clear",
				Description: "Remove every item in a list",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "List name (default: default)"},
				},
			},
		},
	},
	{
		Name:        "note",
		Description: "Quick notes",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Save a note",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "body", Description: "Note text", Required: true},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "Show recent notes"},
		},
	},
	{
		Name:        "budget",
		Description: "Track income and expenses",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Record an entry",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type: discordgo.ApplicationCommandOptionString, Name: "kind", Description: "expense or income", Required: true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "expense", Value: "expense"},
							{Name: "income", Value: "income"},
						},
					},
					{Type: discordgo.ApplicationCommandOptionNumber, Name: "amount", Description: "Amount", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "category", Description: "Category"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "note", Description: "Free-form note"},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "summary", Description: "This month's totals"},
		},
	},
	{
		Name:        "remind",
		Description: "Reminders",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Set a reminder",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "What to remind you about", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "when_date", Description: "YYYY-MM-DD or YYYY-MM-DD HH:MM", Required: true},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "Show pending reminders"},
		},
	},
	{
		Name:        "schedule",
		Description: "Weekly schedule",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Set a slot",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "weekday", Description: "monday..sunday", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "time", Description: "HH:MM", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "activity", Description: "What happens then", Required: true},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Show your week"},
		},
	},
}

func taskAddModal() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: taskAddModalID,
			Title:    "New task",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  "task_description",
						Label:     "Description",
						Style:     discordgo.TextInputShort,
						Required:  true,
						MaxLength: 200,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "task_due_date",
						Label:       "Due date (YYYY-MM-DD or YYYY-MM-DD HH:MM)",
						Style:       discordgo.TextInputShort,
						Required:    false,
						Placeholder: "2026-03-15 14:30",
					},
				}},
			},
		},
	}
}

func listAddModal() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: listAddModalID,
			Title:    "New list item",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  "list_item",
						Label:     "Item",
						Style:     discordgo.TextInputShort,
						Required:  true,
						MaxLength: 200,
					},
				}},
			},
		},
	}
}
