package main

import (
	"context"
	"errors"
	"strings"

	"todo-client/internal/domain"
	"todo-client/internal/service"
)

func (a *app) verificationFlow() *service.VerificationFlow {
	return service.NewVerificationFlow(a.client, a.renderer, a.logger.Named("verify"), service.VerificationOptions{
		Seconds: a.cfg.OTPSeconds,
		OnTick:  a.announceTick,
	})
}

// announceTick avisa el tiempo restante en algunos hitos sin inundar la terminal.
func (a *app) announceTick(remaining int) {
	if remaining%60 == 0 || remaining == 30 || remaining == 10 {
		a.renderer.Println(a.renderer.Countdown(remaining))
	}
}

func (a *app) verify(ctx context.Context) error {
	identity, err := a.requireIdentity(ctx)
	if err != nil {
		return err
	}
	flow := a.verificationFlow()
	defer flow.Close()
	flow.Mount(identity)
	return a.runVerification(ctx, flow, identity.Email)
}

// runVerification pide el codigo y lee intentos hasta que el prompt se cierra.
func (a *app) runVerification(ctx context.Context, flow *service.VerificationFlow, email string) error {
	if !flow.CanRequest() {
		a.renderer.Println("Account already verified.")
		return nil
	}
	if err := flow.RequestChallenge(ctx, email); err != nil {
		return err
	}
	a.renderer.Println(a.renderer.Countdown(flow.Remaining()))

	var lastErr error
	for flow.PromptOpen() {
		line, err := a.readLine("Code (r to resend, c to cancel): ")
		if err != nil {
			flow.Cancel()
			return err
		}
		switch strings.ToLower(line) {
		case "c", "cancel":
			flow.Cancel()
			a.renderer.Println("Verification cancelled.")
			return nil
		case "r", "resend":
			if err := flow.RequestChallenge(ctx, email); err == nil {
				a.renderer.Println(a.renderer.Countdown(flow.Remaining()))
			}
			continue
		}

		lastErr = flow.SubmitCode(ctx, email, line)
		switch {
		case errors.Is(lastErr, domain.ErrChallengeExpired):
			a.renderer.Println(a.renderer.Countdown(0))
		case errors.Is(lastErr, domain.ErrCodeTooLong):
			a.renderer.Println("The code has at most 6 characters.")
		}
	}
	if flow.State() == service.VerifyVerified {
		return nil
	}
	return lastErr
}
