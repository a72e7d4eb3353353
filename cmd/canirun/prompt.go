package main

import (
	"bufio"
	"canirun/internal/domain"
	"canirun/internal/service"
	"fmt"
	"io"
	"strings"
)

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("%w: no answer given", errUsage)
	}
	return strings.TrimSpace(line), nil
}

func promptAppID(r *bufio.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter the game steam id (like: 'https://store.steampowered.com/app/271590/'): ")
	answer, err := readLine(r)
	if err != nil {
		return "", err
	}
	id, err := service.ValidateAppID(answer)
	if err != nil {
		return "", fmt.Errorf("%w: the id must be an integer", errUsage)
	}
	return id, nil
}

func promptTier(r *bufio.Reader, w io.Writer) (domain.Tier, error) {
	fmt.Fprint(w, "Type 1 for minimum requirements or 2 for recommended requirements: ")
	answer, err := readLine(r)
	if err != nil {
		return "", err
	}
	if answer != "1" && answer != "2" {
		return "", fmt.Errorf("%w: expected 1 or 2, got %q", errUsage, answer)
	}
	return domain.ParseTier(answer)
}
