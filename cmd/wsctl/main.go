// wsctl is a terminal client for the Casaplan project workspace. It signs in
// with email and password, loads the workspace tree for one project, and runs
// a single command against it.
//
// Usage:
//
//	wsctl --api http://localhost:8791 --email dana@example.com --password secret \
//	      --project prj-1 <command> [flags]
//
// Commands: view, create-section, update-section, delete-section, add-item,
// delete-item, react, comment, upload.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"casaplan/api/internal/workspace"
)

var (
	apiURL    = pflag.String("api", "http://localhost:8791", "API base URL")
	email     = pflag.String("email", "", "account email")
	password  = pflag.String("password", "", "account password")
	projectID = pflag.String("project", "", "project id")

	sectionID = pflag.String("section", "", "section id")
	itemID    = pflag.String("item", "", "item id")
	title     = pflag.String("title", "", "title")
	desc      = pflag.String("desc", "", "description")
	itemType  = pflag.String("type", "", "item type (image|file|link|product) or reaction type (like|love|approved)")
	linkURL   = pflag.String("link", "", "link url for link and product items")
	fileURL   = pflag.String("file-url", "", "file url for image and file items")
	price     = pflag.Float64("price", 0, "product price")
	currency  = pflag.String("currency", "EUR", "product currency")
	store     = pflag.String("store", "", "product store name")
	address   = pflag.String("address", "", "product store address")
	message   = pflag.String("message", "", "comment content")
	filePath  = pflag.String("file", "", "local file to upload")
	public    = pflag.Bool("public", false, "upload to the public bucket prefix")
)

func main() {
	pflag.Parse()
	if pflag.NArg() < 1 {
		fatalf("usage: wsctl [flags] <command>\n\n%s", pflag.CommandLine.FlagUsages())
	}
	command := pflag.Arg(0)

	if *email == "" || *password == "" {
		fatalf("--email and --password are required")
	}
	if *projectID == "" {
		fatalf("--project is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	signin, err := signIn(ctx, *apiURL, *email, *password)
	if err != nil {
		fatalf("sign in: %v", err)
	}

	client := workspace.NewClient(*apiURL, signin.AccessToken)
	session := workspace.Session{UserID: signin.UserID, UserName: signin.UserName, Role: signin.Role}
	manager := workspace.NewManager(client, session, *projectID)

	if err := manager.Load(ctx); err != nil {
		fatalf("load workspace: %v", err)
	}

	if err := run(ctx, manager, command); err != nil {
		fatalf("%s: %v", command, err)
	}
}

func run(ctx context.Context, manager *workspace.Manager, command string) error {
	switch command {
	case "view":
		manager.MarkViewed()
		printTree(manager.Sections())
		return nil

	case "create-section":
		created, err := manager.CreateSection(ctx, workspace.SectionRequest{Title: *title, Description: *desc})
		if err != nil {
			return err
		}
		fmt.Printf("created section %s\n", created.ID)
		return nil

	case "update-section":
		updated, err := manager.UpdateSection(ctx, *sectionID, workspace.SectionRequest{Title: *title, Description: *desc})
		if err != nil {
			return err
		}
		fmt.Printf("updated section %s\n", updated.ID)
		return nil

	case "delete-section":
		if err := manager.DeleteSection(ctx, *sectionID); err != nil {
			return err
		}
		fmt.Printf("deleted section %s\n", *sectionID)
		return nil

	case "add-item":
		var pricePtr *float64
		if *price > 0 {
			pricePtr = price
		}
		created, err := manager.CreateItem(ctx, *sectionID, workspace.ItemRequest{
			Title:        *title,
			Description:  *desc,
			Type:         *itemType,
			FileURL:      *fileURL,
			LinkURL:      *linkURL,
			Price:        pricePtr,
			Currency:     *currency,
			StoreName:    *store,
			StoreAddress: *address,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created item %s\n", created.ID)
		return nil

	case "delete-item":
		if err := manager.DeleteItem(ctx, *sectionID, *itemID); err != nil {
			return err
		}
		fmt.Printf("deleted item %s\n", *itemID)
		return nil

	case "react":
		reactions, err := manager.React(ctx, *sectionID, *itemID, *itemType)
		if err != nil {
			return err
		}
		for _, reaction := range reactions {
			fmt.Printf("%s  %s\n", reaction.Type, reaction.UserName)
		}
		return nil

	case "comment":
		comments, err := manager.AddComment(ctx, *sectionID, *itemID, *message)
		if err != nil {
			return err
		}
		for _, comment := range comments {
			fmt.Printf("%s: %s\n", comment.UserName, comment.Content)
		}
		return nil

	case "upload":
		file, err := os.Open(*filePath)
		if err != nil {
			return err
		}
		defer file.Close()
		info, err := file.Stat()
		if err != nil {
			return err
		}
		result, err := manager.Upload(ctx, workspace.UploadFile{
			FileName:    filepath.Base(*filePath),
			ContentType: "",
			Size:        info.Size(),
			Body:        file,
			Public:      *public,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", result.URL)
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printTree(sections []workspace.Section) {
	if len(sections) == 0 {
		fmt.Println("(empty workspace)")
		return
	}
	for _, section := range sections {
		fmt.Printf("%s  %s\n", section.ID, section.Title)
		if section.Description != "" {
			fmt.Printf("    %s\n", section.Description)
		}
		for _, attachment := range section.Attachments {
			fmt.Printf("    [%s] %s  %s\n", attachment.FileType, attachment.FileName, attachment.FileURL)
		}
		for _, item := range section.Items {
			fmt.Printf("    %s  %-8s %s", item.ID, item.Type, item.Title)
			if item.Price != nil {
				fmt.Printf("  %.2f %s", *item.Price, item.Currency)
			}
			fmt.Println()
			for _, reaction := range item.Reactions {
				fmt.Printf("        %s %s\n", reaction.Type, reaction.UserName)
			}
			for _, comment := range item.Comments {
				fmt.Printf("        %s: %s\n", comment.UserName, comment.Content)
			}
		}
	}
}

type signinResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	Role         string `json:"role"`
}

func signIn(ctx context.Context, baseURL, email, password string) (signinResponse, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return signinResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(baseURL, "/")+"/api/auth/signin", bytes.NewReader(payload))
	if err != nil {
		return signinResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return signinResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Code  string `json:"code"`
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return signinResponse{}, fmt.Errorf("%s (%s)", envelope.Error, envelope.Code)
	}

	var out signinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return signinResponse{}, err
	}
	return out, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
