package opengl

const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

uniform mat4 mvp;
uniform mat4 model;
uniform mat4 lightViewProj;

out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragWorldPos;
out vec4 fragLightSpacePos;
out vec4 fragClipPos;

void main() {
    vec4 worldPos = model * vec4(inPosition, 1.0);
    gl_Position       = mvp * vec4(inPosition, 1.0);
    fragClipPos       = gl_Position;
    fragNormal        = mat3(model) * inNormal;
    fragUV            = inUV;
    fragWorldPos      = worldPos.xyz;
    fragLightSpacePos = lightViewProj * worldPos;
}
` + "\x00"

// fragSrc switches on the material's shading model. Directional lights may
// cast the single shadow map; hemisphere lights blend sky and ground by the
// normal; point lights fall off linearly to their range.
const fragSrc = `
#version 410 core
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragWorldPos;
in vec4 fragLightSpacePos;
in vec4 fragClipPos;

out vec4 outColor;

#define SHADING_STANDARD   0
#define SHADING_BASIC      1
#define SHADING_TOON       2
#define SHADING_PHONG      3
#define SHADING_PHYSICAL   4
#define SHADING_REFRACTION 5

#define MAX_DIR_LIGHTS   4
#define MAX_HEMI_LIGHTS  2
#define MAX_POINT_LIGHTS 4

uniform int shading;

uniform vec3      matColor;
uniform float     opacity;
uniform sampler2D colorMap;
uniform bool      hasColorMap;

uniform float roughness;
uniform float metalness;
uniform float transmission;
uniform float thickness;
uniform float ior;

uniform vec3  specularColor;
uniform float shininess;
uniform float reflectivity;
uniform float refractionRatio;

uniform sampler2D gradientMap;
uniform bool      hasGradientMap;

uniform samplerCube envMap;
uniform bool        hasEnvMap;
uniform bool        envRefraction;

uniform sampler2D captureMap;
uniform sampler2D dudvMap;
uniform bool      hasCapture;
uniform float     distortScale;

uniform sampler2DShadow shadowMap;
uniform bool            hasShadows;
uniform bool            receiveShadow;
uniform int             shadowLight;
uniform int             shadowFilter;
uniform float           shadowBias;
uniform float           shadowRadius;
uniform int             shadowSamples;
uniform float           shadowTexel;

uniform int  dirCount;
uniform vec3 dirDir[MAX_DIR_LIGHTS];
uniform vec3 dirColor[MAX_DIR_LIGHTS];

uniform int  hemiCount;
uniform vec3 hemiUp[MAX_HEMI_LIGHTS];
uniform vec3 hemiSky[MAX_HEMI_LIGHTS];
uniform vec3 hemiGround[MAX_HEMI_LIGHTS];

uniform int   pointCount;
uniform vec3  pointPos[MAX_POINT_LIGHTS];
uniform vec3  pointColor[MAX_POINT_LIGHTS];
uniform float pointRange[MAX_POINT_LIGHTS];

uniform vec3 ambientColor;
uniform vec3 cameraPos;

const float PI = 3.14159265359;

// ── Shadow ───────────────────────────────────────────────────────────────────

float calcShadow(vec3 N, vec3 L) {
    vec3 p = fragLightSpacePos.xyz / fragLightSpacePos.w * 0.5 + 0.5;
    if (p.z > 1.0) return 1.0;
    float depth = p.z - max(shadowBias, 0.0005 * (1.0 - max(dot(N, L), 0.0)));

    if (shadowFilter == 0) {
        return texture(shadowMap, vec3(p.xy, depth));
    }
    if (shadowFilter == 1) {
        float sum = 0.0;
        for (int x = -1; x <= 1; x++) {
            for (int y = -1; y <= 1; y++) {
                sum += texture(shadowMap, vec3(p.xy + vec2(float(x), float(y)) * shadowTexel, depth));
            }
        }
        return sum / 9.0;
    }
    // Soft: shadowSamples taps on a golden-angle spiral of shadowRadius texels.
    int n = max(shadowSamples, 1);
    float radius = max(shadowRadius, 1.0);
    float sum = 0.0;
    for (int i = 0; i < n; i++) {
        float r = sqrt((float(i) + 0.5) / float(n)) * radius;
        float a = float(i) * 2.39996323;
        sum += texture(shadowMap, vec3(p.xy + vec2(cos(a), sin(a)) * r * shadowTexel, depth));
    }
    return sum / float(n);
}

float dirShadow(int i, vec3 N, vec3 L) {
    if (!hasShadows || !receiveShadow || i != shadowLight) return 1.0;
    return calcShadow(N, L);
}

// ── BRDF helpers ─────────────────────────────────────────────────────────────

float DistributionGGX(float NdH, float rough) {
    float a  = rough * rough;
    float a2 = a * a;
    float d  = NdH * NdH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float GeometrySchlickGGX(float cosTheta, float rough) {
    float r = rough + 1.0;
    float k = (r * r) / 8.0;
    return cosTheta / (cosTheta * (1.0 - k) + k);
}

vec3 FresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

vec3 evalStandard(vec3 N, vec3 V, vec3 L, vec3 rad, vec3 albedo, vec3 F0) {
    float NdL = max(dot(N, L), 0.0);
    if (NdL <= 0.0) return vec3(0.0);
    vec3  H   = normalize(V + L);
    float NdV = max(dot(N, V), 0.0);
    float rough = clamp(roughness, 0.04, 1.0);

    float D = DistributionGGX(max(dot(N, H), 0.0), rough);
    float G = GeometrySchlickGGX(NdV, rough) * GeometrySchlickGGX(NdL, rough);
    vec3  F = FresnelSchlick(max(dot(H, V), 0.0), F0);

    vec3 kD   = (vec3(1.0) - F) * (1.0 - metalness);
    vec3 spec = D * G * F / max(4.0 * NdV * NdL, 0.001);
    return (kD * albedo / PI + spec) * rad * NdL * PI;
}

vec3 evalPhong(vec3 N, vec3 V, vec3 L, vec3 rad, vec3 albedo) {
    float NdL = max(dot(N, L), 0.0);
    vec3 H = normalize(L + V);
    vec3 spec = specularColor * pow(max(dot(N, H), 0.0), shininess);
    return (albedo * NdL + spec * step(0.0, NdL)) * rad;
}

vec3 evalToon(vec3 N, vec3 L, vec3 rad, vec3 albedo) {
    float coord = dot(N, L) * 0.5 + 0.5;
    vec3 ramp;
    if (hasGradientMap) {
        ramp = vec3(texture(gradientMap, vec2(coord, 0.0)).r);
    } else {
        ramp = vec3(coord < 0.7 ? 0.7 : 1.0);
    }
    return albedo * ramp * rad;
}

vec3 hemisphere(vec3 N) {
    vec3 sum = vec3(0.0);
    for (int i = 0; i < hemiCount; i++) {
        float w = 0.5 * dot(N, hemiUp[i]) + 0.5;
        sum += mix(hemiGround[i], hemiSky[i], w);
    }
    return sum;
}

vec3 blendOverlay(vec3 base, vec3 blend) {
    vec3 lo = 2.0 * base * blend;
    vec3 hi = 1.0 - 2.0 * (1.0 - base) * (1.0 - blend);
    return mix(lo, hi, step(0.5, base));
}

// ── Main ─────────────────────────────────────────────────────────────────────

void main() {
    vec4 base = vec4(matColor, opacity);
    if (hasColorMap) {
        base *= texture(colorMap, fragUV);
    }

    if (shading == SHADING_BASIC) {
        outColor = base;
        return;
    }

    if (shading == SHADING_REFRACTION) {
        vec2 d = texture(dudvMap, fragUV).rg * distortScale;
        d = fragUV + d;
        vec2 distortion = (texture(dudvMap, d).rg * 2.0 - 1.0) * distortScale;
        vec4 uv = vec4((fragClipPos.xy + fragClipPos.w) * 0.5, fragClipPos.z, fragClipPos.w);
        uv.xy += distortion;
        vec3 behind = hasCapture ? textureProj(captureMap, uv).rgb : vec3(0.5);
        outColor = vec4(blendOverlay(behind, base.rgb), 1.0);
        return;
    }

    vec3 N = normalize(fragNormal);
    if (!gl_FrontFacing) N = -N;
    vec3 V = normalize(cameraPos - fragWorldPos);
    vec3 albedo = base.rgb;
    vec3 F0 = mix(vec3(0.04), albedo, metalness);

    vec3 color = ambientColor * albedo + hemisphere(N) * albedo;

    for (int i = 0; i < dirCount; i++) {
        vec3 L = normalize(-dirDir[i]);
        vec3 rad = dirColor[i] * dirShadow(i, N, L);
        if (shading == SHADING_TOON) {
            color += evalToon(N, L, rad, albedo);
        } else if (shading == SHADING_PHONG) {
            color += evalPhong(N, V, L, rad, albedo);
        } else {
            color += evalStandard(N, V, L, rad, albedo, F0);
        }
    }

    for (int i = 0; i < pointCount; i++) {
        vec3 toLight = pointPos[i] - fragWorldPos;
        float dist = length(toLight);
        float atten = pointRange[i] > 0.0 ? clamp(1.0 - dist / pointRange[i], 0.0, 1.0) : 1.0;
        vec3 L = toLight / max(dist, 0.0001);
        vec3 rad = pointColor[i] * atten * atten;
        if (shading == SHADING_TOON) {
            color += evalToon(N, L, rad, albedo);
        } else if (shading == SHADING_PHONG) {
            color += evalPhong(N, V, L, rad, albedo);
        } else {
            color += evalStandard(N, V, L, rad, albedo, F0);
        }
    }

    float alpha = base.a;
    vec3 I = -V;
    if (hasEnvMap && shading == SHADING_PHONG) {
        vec3 dir = envRefraction ? refract(I, N, refractionRatio) : reflect(I, N);
        vec3 env = texture(envMap, dir).rgb;
        color = mix(color, color * env, reflectivity);
    } else if (hasEnvMap && (shading == SHADING_STANDARD || shading == SHADING_PHYSICAL)) {
        float NdV = max(dot(N, V), 0.0);
        float lod = roughness * 8.0;
        vec3 F = FresnelSchlick(NdV, F0) * (1.0 - roughness * 0.5);
        color += textureLod(envMap, reflect(I, N), lod).rgb * F;
        if (shading == SHADING_PHYSICAL && transmission > 0.0) {
            vec3 dir = refract(I, N, 1.0 / max(ior, 1.0));
            dir = normalize(dir + N * thickness * 0.1);
            vec3 through = textureLod(envMap, dir, lod).rgb * albedo;
            color = mix(color, through, transmission);
            alpha = mix(alpha, 1.0, transmission);
        }
    }

    outColor = vec4(color, alpha);
}
` + "\x00"

const depthVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 lightMVP;

void main() {
    gl_Position = lightMVP * vec4(inPosition, 1.0);
}
` + "\x00"

const depthFragSrc = `
#version 410 core
void main() {}
` + "\x00"
