package service

import (
	"fmt"
	"strings"

	"github.com/templui/goalkeeper/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// title builds a new Caser per call; a Caser must not be shared between goroutines.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func welcomeEmailTemplate(name, goalsURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Thanks for signing up. Log what you eat and how you move, and we'll suggest daily and weekly goals that fit you.

Add your age and sex to your profile to get nutrition goals based on recommended intakes.

Your goals:
%s

Best,
The %s Team`, name, goalsURL, appName)

	return subject, body
}

func goalCompletedEmailTemplate(name string, goal *model.Goal, goalURL, appName string) (string, string) {
	subject := fmt.Sprintf("Goal reached: %s", goal.String())

	kind := title(string(goal.Kind))
	if goal.Category != "" {
		kind = title(strings.ReplaceAll(string(goal.Category), "_", " "))
	}

	body := fmt.Sprintf(`Hi %s,

You completed your %s goal of %s.

See your progress:
%s

Keep it up,
The %s Team`, name, kind, goal.String(), goalURL, appName)

	return subject, body
}

func groupGoalEmailTemplate(name, groupName string, goal *model.Goal, goalURL, appName string) (string, string) {
	subject := fmt.Sprintf("New goal in %s", title(groupName))
	body := fmt.Sprintf(`Hi %s,

Your group %s has a new goal: %s.

Accept it to start tracking your progress:
%s

Best,
The %s Team`, name, groupName, goal.String(), goalURL, appName)

	return subject, body
}

func groupInviteEmailTemplate(name, groupName, acceptURL, appName string) (string, string) {
	subject := fmt.Sprintf("You're invited to join %s", title(groupName))
	body := fmt.Sprintf(`Hi %s,

You were invited to the group %s. Accept the invitation to join, and goals set for the group will show up in your goal list.

%s

This invitation expires in 7 days.

Best,
The %s Team`, name, groupName, acceptURL, appName)

	return subject, body
}

func groupGoalReachedEmailTemplate(name, groupName, achiever string, goal *model.Goal, groupURL, appName string) (string, string) {
	subject := fmt.Sprintf("%s reached a %s goal", achiever, title(groupName))
	body := fmt.Sprintf(`Hi %s,

%s completed the group goal %s.

%s

Best,
The %s Team`, name, achiever, goal.String(), groupURL, appName)

	return subject, body
}

func passwordResetEmailTemplate(name, resetURL, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your %s password", appName)
	body := fmt.Sprintf(`Hi %s,

Someone asked to reset the password for your account. Use this link to choose a new one:

%s

The link expires in 1 hour. If you didn't ask for this, you can ignore this email.

Best,
The %s Team`, name, resetURL, appName)

	return subject, body
}
