package helper

import (
	"context"
	"log"
	"mime/multipart"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

func InitCloudinary() *cloudinary.Cloudinary {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		log.Fatalf("Cloudinary init failed: %v", err)
	}
	return cld
}

// UploadEventImage pushes an image file into the event_hub folder and
// returns its delivery URL and public id.
func UploadEventImage(ctx context.Context, cld *cloudinary.Cloudinary, file *multipart.FileHeader) (string, string, error) {
	f, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	result, err := cld.Upload.Upload(ctx, f, uploader.UploadParams{
		Folder: "event_hub/events",
	})
	if err != nil {
		return "", "", err
	}
	return result.SecureURL, result.PublicID, nil
}

// DeleteCloudinaryImage removes an uploaded asset by public id.
func DeleteCloudinaryImage(ctx context.Context, cld *cloudinary.Cloudinary, publicId string) error {
	if publicId == "" {
		return nil
	}
	_, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicId})
	return err
}
