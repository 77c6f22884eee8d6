// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// signup.go - Interactive account creation.
//
// Command: signup
// Aliases: register
//
// The form is checked on this side before anything is sent: empty fields,
// a short password, a confirmation mismatch and an unaccepted agreement
// all stop here with the first problem shown. While the password is
// entered, its strength and the server's rules are shown.
package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/signup"
	"github.com/salestrainer/salestrainer-tui/internal/ui/components"
	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
)

const termsQuestion = "I agree to the Terms of Service and Privacy Policy"

// ReadSignupForm collects the form. It shows the strength meter and the
// policy hints after the password is typed.
func ReadSignupForm(env *Env, args Args) (signup.Form, error) {
	var f signup.Form
	var err error

	theme := styles.NewThemeFor(env.Config.UI.Theme)
	minLength := env.Config.Signup.PasswordMinLength

	if f.Name, err = env.Prompter.Prompt(RenderLabel("Name") + " "); err != nil {
		return f, err
	}

	f.Email = args.Email
	if f.Email == "" {
		if f.Email, err = env.Prompter.Prompt(RenderLabel("Email") + " "); err != nil {
			return f, err
		}
	}

	if f.Password, err = env.Prompter.Password(RenderLabel("Password") + " "); err != nil {
		return f, err
	}
	if f.Password != "" {
		fmt.Fprintln(env.Out, RenderLabel("Strength")+" "+components.RenderStrengthMeter(theme, f.Password))
		fmt.Fprintln(env.Out, components.RenderPolicyHints(theme, f.Password, minLength))
	}

	if f.Confirm, err = env.Prompter.Password(RenderLabel("Confirm") + " "); err != nil {
		return f, err
	}

	if f.AcceptTerms, err = Confirm(env.Prompter, termsQuestion); err != nil {
		return f, err
	}
	return f, nil
}

// HandleSignup runs the signup command. Validation failures return
// signup.ValidationErrors without contacting the server.
func HandleSignup(ctx context.Context, env *Env, args Args) error {
	if !args.Quiet && !args.JSON {
		fmt.Fprintln(env.Out, TitleStyle.Render("Create your account"))
		fmt.Fprintln(env.Out, DimStyle.Render("Practice your pitch against an AI prospect."))
		fmt.Fprintln(env.Out)
	}

	form, err := ReadSignupForm(env, args)
	if err != nil {
		return err
	}

	if err := form.Validate(env.Config.Signup.PasswordMinLength); err != nil {
		log.Printf("SIGNUP_INVALID | err=%v", err)
		return err
	}

	req := form.Request()
	redirect, err := env.Client.Register(ctx, req)
	if err != nil {
		log.Printf("SIGNUP_FAILED | email=%s type=%s", req.Email, api.TypeOf(err))
		return err
	}
	log.Printf("SIGNUP | email=%s", req.Email)

	if args.JSON {
		return NewJSONResponse("signup", SignupData{Email: req.Email, Redirect: redirect}).Print(env.Out)
	}
	fmt.Fprintln(env.Out, SuccessStyle.Render("Account created.")+" "+
		DimStyle.Render("Run salestrainer to start practicing."))
	return nil
}
