package service

import "github.com/prometheus/client_golang/prometheus"

var (
	imagesUploaded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ads_online_images_uploaded_total", Help: "Count of stored images",
	})
	imageUploadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ads_online_image_upload_bytes",
		Help:    "Size of accepted image payloads",
		Buckets: prometheus.ExponentialBuckets(16<<10, 2, 10), // 16KB .. 8MB
	})
	imagesRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ads_online_images_rejected_total", Help: "Count of rejected image uploads",
	}, []string{"reason"})
)

func init() { prometheus.MustRegister(imagesUploaded, imageUploadBytes, imagesRejected) }
